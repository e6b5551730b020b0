package middleware

import (
	"context"
	"net/http"
	"strings"

	gatekit "github.com/dkrylov/gatekit"
)

type userContextKey struct{}

// UserFromContext returns the authenticated user injected by Guard.
func UserFromContext(ctx context.Context) (*gatekit.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*gatekit.User)
	return u, ok
}

// Guard returns middleware that authenticates the request's bearer access
// token and injects the resolved user into the request context. Requests
// without a valid token get 401.
func Guard(engine *gatekit.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				unauthorized(w)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			user, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that enforces a role on an already
// guarded route. It must run inside Guard; a request without a context
// user gets 401, a user with an insufficient role gets 403.
func RequireRole(engine *gatekit.Engine, role gatekit.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if err := engine.RequireRole(user, role); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
