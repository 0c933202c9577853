package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
)

// Authenticate rejects requests without a valid bearer token and stores its claims in the context.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				render.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				render.Error(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets through only callers whose token carries one of roles. It must run after
// Authenticate.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFrom(r.Context())
			if !ok {
				render.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				render.Error(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
