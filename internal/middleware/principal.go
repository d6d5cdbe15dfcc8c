package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"taskdeck/internal/domain"
)

type userKey struct{}

// Principal header names. The gateway in front of this service authenticates
// the caller and forwards the identity in these headers.
const (
	HeaderPrincipalID     = "X-Principal-ID"
	HeaderPrincipalName   = "X-Principal-Name"
	HeaderPrincipalEmail  = "X-Principal-Email"
	HeaderPrincipalAvatar = "X-Principal-Avatar"
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(domain.User)
	return user, ok
}

// Principal requires the forwarded identity headers and stores the user in
// the request context. Requests without a principal id get 401.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderPrincipalID)
		if id == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    401,
				"message": "unauthorized: missing " + HeaderPrincipalID + " header",
			})
			return
		}

		user := domain.User{
			ID:          id,
			DisplayName: r.Header.Get(HeaderPrincipalName),
			Email:       r.Header.Get(HeaderPrincipalEmail),
			AvatarURL:   r.Header.Get(HeaderPrincipalAvatar),
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
