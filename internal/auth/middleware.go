package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/todo-backend/internal/platform/api"
)

type ctxKeyIdentity struct{}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return v, ok
}

// WithIdentity injects an identity into context. Useful for testing.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

// RequireUser validates the Bearer token and injects the caller identity.
// It is composed explicitly into protected route groups.
func RequireUser(tokens TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				api.Unauthorized(w, "Invalid credentials")
				return
			}
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				api.Unauthorized(w, "Invalid credentials")
				return
			}
			identity, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				api.Unauthorized(w, "Invalid credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
