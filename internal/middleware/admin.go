package middleware

import (
	"net/http"

	"github.com/embodywellness/member-api/internal/request"
)

// RequireAdmin rejects requests whose current user lacks the admin flag.
// Must run after Auth. The data layer's access rules remain the real
// enforcement; this keeps non-admins off the admin surface.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := request.UserFromContext(r)
		if user == nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !user.IsAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
