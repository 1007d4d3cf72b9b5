// Package hub defines the narrow interfaces through which the adapter talks
// to the rest of the sync hub: the user directory, the account-link store and
// the per-service OAuth providers. The adapter never owns storage; it only
// reads and writes through these.
package hub

import (
	"context"
	"net/http"

	"github.com/lildude/rcsync/internal/model"
)

// UserDirectory locates or creates hub users.
type UserDirectory interface {
	// EnsureUserForToken returns the user owning the given RunnersConnect
	// token, creating one if none exists. Repeated calls with the same
	// token return the same user.
	EnsureUserForToken(ctx context.Context, token string) (*model.User, error)
}

// LinkStore persists account links between hub users and external services.
type LinkStore interface {
	// CreateOrUpdateLink stores the link for (service, externalID),
	// replacing any existing auth data. Idempotent for repeated calls
	// with the same identity.
	CreateOrUpdateLink(ctx context.Context, service, externalID string, authData map[string]any) (*model.AccountLink, error)
	// AttachLinkToUser associates the link with the user.
	AttachLinkToUser(ctx context.Context, user *model.User, link *model.AccountLink) error
	// ConnectedServices lists the service IDs already linked to the user.
	ConnectedServices(ctx context.Context, user *model.User) ([]string, error)
}

// Provider is one external service's own authorization-code exchange,
// invoked generically by the linking handler.
type Provider interface {
	ID() string
	// RetrieveAuthorizationToken completes the provider's OAuth exchange
	// using parameters carried on the inbound request, returning the
	// provider-side account identifier and the auth data to persist.
	RetrieveAuthorizationToken(r *http.Request) (externalID string, authData map[string]any, err error)
}

// Registry resolves service identifiers to providers.
type Registry interface {
	FromID(id string) (Provider, error)
}
