package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionCookie is the cookie the auth provider sets at login. The
// Authorization header takes precedence when both are present.
const SessionCookie = "session_token"

// Resolver turns an opaque session token into a Session. The stock
// implementation decodes provider-signed JWTs locally; remote resolvers
// may return ErrResolutionPending while a lookup is in flight.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}

// Claims are the claims the auth provider embeds in session tokens.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	UserType    string `json:"user_type"`
	jwt.RegisteredClaims
}

type tokenResolver struct {
	secret string
}

// NewTokenResolver returns a Resolver that verifies provider-signed
// HMAC tokens with the shared secret.
func NewTokenResolver(secret string) Resolver {
	return &tokenResolver{secret: secret}
}

func (r *tokenResolver) Resolve(_ context.Context, tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(r.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in session token: %w", err)
	}

	return &Session{
		UserID:      userID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
		UserType:    claims.UserType,
	}, nil
}

// Guard resolves the current actor for page handlers. Unlike the API
// auth middleware it never writes a response: it reports one of the
// three states and leaves the routing decision to the caller.
type Guard struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewGuard creates a Guard backed by the given resolver.
func NewGuard(resolver Resolver, logger *zap.Logger) *Guard {
	return &Guard{resolver: resolver, logger: logger}
}

// FromRequest resolves the request's session token into a State.
// A missing or invalid token yields Anonymous; a resolver that is still
// materializing the session yields Loading.
func (g *Guard) FromRequest(r *http.Request) State {
	token := TokenFromRequest(r)
	if token == "" {
		return None()
	}

	sess, err := g.resolver.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrResolutionPending) {
			return Pending()
		}
		g.logger.Debug("Session token rejected", zap.Error(err))
		return None()
	}

	return Resolved(sess)
}

// TokenFromRequest extracts the raw session token from the Authorization
// header (Bearer scheme) or the session cookie. Empty when absent.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
