package httpx

import (
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

// Authenticate requires a valid bearer token whose kind is one of accept.
// A missing or invalid token is answered with 401, a valid token of another
// kind with 403. Calling it without any accepted kind panics at setup.
func Authenticate(v jwtx.Verifier, accept ...jwtx.Kind) Middleware {
	if len(accept) == 0 {
		panic("httpx: Authenticate needs at least one accepted token kind")
	}
	accept = slices.Clone(accept)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			if !slices.Contains(accept, claims.Kind) {
				log.Warn("token kind not accepted",
					"kind", claims.Kind,
					"path", r.URL.Path,
					"account_id", claims.Subject,
				)
				WriteError(w, http.StatusForbidden, CodeForbidden, "Token is not valid for this resource")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	const scheme = "bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", false
	}
	return token, true
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, CodeUnauthenticated, "Authentication required")
}
