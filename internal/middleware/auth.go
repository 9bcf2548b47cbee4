package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/embodywellness/member-api/internal/auth"
	logpkg "github.com/embodywellness/member-api/internal/logger"
	"github.com/embodywellness/member-api/internal/models"
	"github.com/embodywellness/member-api/internal/request"
	"github.com/embodywellness/member-api/internal/services/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth creates authentication middleware. It verifies the bearer access
// token against the auth provider's keys, resolves the caller's profile
// (creating it lazily on first contact), and attaches the joined current
// user to the request context. A profile-resolution failure is treated
// as a full auth failure.
func Auth(verifier identity.TokenVerifier, resolver *auth.Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				logger.Warn("token_verification_failed", zap.String("error", logpkg.SanitizeError(err)))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			subjectID, err := uuid.Parse(claims.Sub)
			if err != nil {
				logger.Warn("token_subject_not_uuid", zap.String("sub", logpkg.SanitizeUserID(claims.Sub)))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			profile, err := resolver.Resolve(ctx, models.Identity{
				ID:    subjectID,
				Email: claims.Email,
				Name:  claims.Name,
			})
			if err != nil {
				logger.Error("profile_resolution_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Account unavailable")
				return
			}

			ctx = request.WithUser(ctx, models.UserFromProfile(profile))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	_ = json.NewEncoder(w).Encode(response)
}
