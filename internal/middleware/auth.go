package middleware

import (
	"context"
	"errors"
	"net/http"

	"mypage-shop/internal/session"

	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// AuthMiddleware resolves the request's session token and rejects the
// request when no valid session exists. API routes behind it can rely
// on GetSession returning a resolved identity. A session still being
// materialized is not "logged out": it is rejected with 401 but a
// distinct message, so clients know to retry rather than re-login.
func AuthMiddleware(resolver session.Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r)
			if token == "" {
				logger.Debug("Missing session token")
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			sess, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrResolutionPending) {
					RespondWithError(w, http.StatusUnauthorized, "session not ready, retry")
					return
				}
				logger.Debug("Session token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)

			logger.Debug("User authenticated",
				zap.String("user_id", sess.UserID.String()),
				zap.String("role", sess.Role),
				zap.String("user_type", sess.UserType),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the resolved session from the request context.
func GetSession(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}
