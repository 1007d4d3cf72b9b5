package middleware

import (
	"net/http"

	"github.com/lildude/rcsync/internal/sessions"
)

// RequireLinkedUser is a middleware that checks a linked user is logged in.
func RequireLinkedUser(landingURL string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessions.UserID(r); !ok {
			http.Redirect(w, r, landingURL, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
