// Package link implements the account-linking handlers: the silent
// auto-link driven by a RunnersConnect token and the full OAuth completion
// that also links a second service to the same user.
package link

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/lildude/rcsync/internal/hub"
	"github.com/lildude/rcsync/internal/model"
	"github.com/lildude/rcsync/internal/runnersconnect"
	"github.com/lildude/rcsync/internal/sessions"
	"github.com/lildude/rcsync/internal/sports"
)

var failureTemplate = template.Must(template.New("oauth-failure").Parse(`<!DOCTYPE html>
<html>
<head><title>Connection failed</title></head>
<body>
<h1>Could not connect {{.Service}}</h1>
<p>{{.Error}}</p>
<p><a href="{{.LandingURL}}">Back to RunnersConnect</a></p>
</body>
</html>
`))

// Handler serves the account-linking endpoints.
type Handler struct {
	cfg      runnersconnect.Config
	users    hub.UserDirectory
	links    hub.LinkStore
	registry hub.Registry
}

func NewHandler(cfg runnersconnect.Config, users hub.UserDirectory, links hub.LinkStore, registry hub.Registry) *Handler {
	return &Handler{cfg: cfg, users: users, links: links, registry: registry}
}

// statusDocument is the JSON body returned by the combined flow and the
// status endpoint.
type statusDocument struct {
	Success           bool     `json:"success"`
	User              string   `json:"user"`
	ConnectedServices []string `json:"connectedServices"`
}

// autoLink ensures a user exists for the token, binds the RunnersConnect
// link to them and logs them in. Safe to repeat for the same token.
func (h *Handler) autoLink(w http.ResponseWriter, r *http.Request, token string) (*model.User, error) {
	user, err := h.users.EnsureUserForToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	link, err := h.links.CreateOrUpdateLink(r.Context(), runnersconnect.ServiceID, token, map[string]any{"token": token})
	if err != nil {
		return nil, err
	}
	if err := h.links.AttachLinkToUser(r.Context(), user, link); err != nil {
		return nil, err
	}

	if err := sessions.Login(r, w, user.ID, token); err != nil {
		return nil, err
	}
	slog.Info("auto linked user", "user", user.ID)
	return user, nil
}

// AutoLink links the RunnersConnect account identified by the token query
// parameter and sends the browser on. A missing token is not an error: the
// user just goes back to RunnersConnect.
func (h *Handler) AutoLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, h.cfg.LandingURL, http.StatusFound)
		return
	}

	if _, err := h.autoLink(w, r, token); err != nil {
		slog.Error("auto link failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.cfg.PostLinkURL, http.StatusFound)
}

// OAuthReturn completes a second service's OAuth flow. The RunnersConnect
// auto-link runs first so the resulting service link attaches to the current
// user. Exchange failures render the failure view; they never propagate.
func (h *Handler) OAuthReturn(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	token := r.URL.Query().Get("rc_token")
	if token == "" {
		http.Redirect(w, r, h.cfg.LandingURL, http.StatusFound)
		return
	}

	user, err := h.autoLink(w, r, token)
	if err != nil {
		slog.Error("auto link failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	success := true
	if q.Has("error") || q.Has("not_approved") {
		success = false
	} else {
		svc, err := h.registry.FromID(service)
		if err != nil {
			h.renderFailure(w, service, err)
			return
		}

		externalID, authData, err := svc.RetrieveAuthorizationToken(r)
		if err != nil {
			slog.Error("authorization exchange failed", "service", service, "error", err)
			h.renderFailure(w, service, err)
			return
		}

		link, err := h.links.CreateOrUpdateLink(r.Context(), svc.ID(), externalID, authData)
		if err != nil {
			slog.Error("storing service link failed", "service", service, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if err := h.links.AttachLinkToUser(r.Context(), user, link); err != nil {
			slog.Error("attaching service link failed", "service", service, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	connected, err := h.links.ConnectedServices(r.Context(), user)
	if err != nil {
		slog.Error("listing connected services failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	slog.Info("connected services", "user", user.ID, "services", connected)

	h.writeStatus(w, statusDocument{Success: success, User: token, ConnectedServices: connected})
}

// Status reports the logged-in user's token and connected services, in the
// same document shape as OAuthReturn.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	token, ok := sessions.Token(r)
	if !ok {
		http.Redirect(w, r, h.cfg.LandingURL, http.StatusFound)
		return
	}

	user, err := h.users.EnsureUserForToken(r.Context(), token)
	if err != nil {
		slog.Error("looking up user failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	connected, err := h.links.ConnectedServices(r.Context(), user)
	if err != nil {
		slog.Error("listing connected services failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeStatus(w, statusDocument{Success: true, User: token, ConnectedServices: connected})
}

func (h *Handler) writeStatus(w http.ResponseWriter, doc statusDocument) {
	if doc.ConnectedServices == nil {
		doc.ConnectedServices = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		slog.Error("encoding status response", "error", err)
	}
}

func (h *Handler) renderFailure(w http.ResponseWriter, service string, err error) {
	data := struct {
		Service    string
		Error      string
		LandingURL string
	}{
		Service:    sports.DisplayName(service),
		Error:      err.Error(),
		LandingURL: h.cfg.LandingURL,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if terr := failureTemplate.Execute(w, data); terr != nil {
		slog.Error("rendering failure view", "error", terr)
	}
}
