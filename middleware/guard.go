package middleware

import (
	"context"
	"net/http"

	authcore "github.com/clipstash/authcore"
)

type identityContextKey struct{}

// Guard wraps next with access-token authentication. The token is read from
// the Authorization bearer header or the configured access cookie, verified
// statelessly, and the resolved identity is attached to the request context.
// Requests without a valid access token get 401 and never reach next.
func Guard(svc *authcore.Service, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := svc.AccessTokenFromRequest(r)
		if raw == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		identity, err := svc.Authenticate(r.Context(), raw)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the identity set by [Guard], or "" when the
// request did not pass through it.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityContextKey{}).(string)
	return identity
}
