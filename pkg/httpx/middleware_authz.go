package httpx

import (
	"net/http"
	"slices"
)

// RequireRole only lets callers whose role claim is listed through. It must
// run after Authenticate.
func RequireRole(roles ...string) Middleware {
	roles = slices.Clone(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, RoleFromContext(r.Context())) {
				WriteError(w, http.StatusForbidden, CodeForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
