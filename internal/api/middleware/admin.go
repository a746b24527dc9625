package middleware

import (
	"net/http"

	"github.com/thando/renthub/internal/authz"
)

// RequireAdmin guards admin-only routes. It fails closed: no identity, a
// missing profile, or a lookup failure all produce a denial, never access.
func RequireAdmin(gate *authz.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !gate.IsAdmin(r.Context(), userID) {
				http.Error(w, "Admin access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
