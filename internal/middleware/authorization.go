package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireRole ensures the session's staff role is in the allowed set.
// Used to gate catalog-management surfaces such as the upload endpoint.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				logger.Warn("Session not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if sess.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				logger.Warn("Role not authorized",
					zap.String("role", sess.Role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireCustomer ensures the session belongs to a customer account.
// Cart and enrollment reads are customer-scoped; staff sessions are
// rejected here rather than silently reading an empty cart.
func RequireCustomer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				logger.Warn("Session not found in context")
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !sess.IsCustomer() {
				logger.Warn("Non-customer session on customer endpoint",
					zap.String("user_type", sess.UserType),
				)
				RespondWithError(w, http.StatusUnauthorized, "customer account required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
