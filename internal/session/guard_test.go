package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func customerClaims(userID uuid.UUID) Claims {
	return Claims{
		Email:       "customer@example.com",
		DisplayName: "山田 太郎",
		UserType:    UserTypeCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestTokenResolver_ValidToken(t *testing.T) {
	userID := uuid.New()
	resolver := NewTokenResolver(testSecret)

	sess, err := resolver.Resolve(context.Background(), signToken(t, testSecret, customerClaims(userID)))
	require.NoError(t, err)

	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, "customer@example.com", sess.Email)
	assert.Equal(t, "山田 太郎", sess.DisplayName)
	assert.True(t, sess.IsCustomer())
	assert.False(t, sess.IsStaff())
}

func TestTokenResolver_StaffToken(t *testing.T) {
	claims := customerClaims(uuid.New())
	claims.Role = RoleOperator
	claims.UserType = UserTypeAdmin
	resolver := NewTokenResolver(testSecret)

	sess, err := resolver.Resolve(context.Background(), signToken(t, testSecret, claims))
	require.NoError(t, err)

	assert.True(t, sess.IsStaff())
	assert.False(t, sess.IsCustomer())
}

func TestTokenResolver_Rejections(t *testing.T) {
	resolver := NewTokenResolver(testSecret)
	userID := uuid.New()

	expired := customerClaims(userID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	badSubject := customerClaims(userID)
	badSubject.Subject = "not-a-uuid"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"wrong secret", signToken(t, "other-secret", customerClaims(userID))},
		{"expired", signToken(t, testSecret, expired)},
		{"non-uuid subject", signToken(t, testSecret, badSubject)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.token)
			assert.Error(t, err)
		})
	}
}

// pendingResolver simulates a remote session store that has not
// materialized the session yet.
type pendingResolver struct{}

func (pendingResolver) Resolve(context.Context, string) (*Session, error) {
	return nil, ErrResolutionPending
}

func TestGuard_TriState(t *testing.T) {
	logger := zap.NewNop()
	userID := uuid.New()
	jwtGuard := NewGuard(NewTokenResolver(testSecret), logger)

	t.Run("no token is anonymous", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/mypage", nil)
		state := jwtGuard.FromRequest(r)
		assert.Equal(t, Anonymous, state.Kind)
		assert.Nil(t, state.Session)
	})

	t.Run("invalid token is anonymous, not an error page", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/mypage", nil)
		r.Header.Set("Authorization", "Bearer garbage")
		state := jwtGuard.FromRequest(r)
		assert.Equal(t, Anonymous, state.Kind)
	})

	t.Run("valid token is authenticated", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/mypage", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, customerClaims(userID)))
		state := jwtGuard.FromRequest(r)
		assert.Equal(t, Authenticated, state.Kind)
		require.NotNil(t, state.Session)
		assert.Equal(t, userID, state.Session.UserID)
	})

	t.Run("pending resolution is loading, not anonymous", func(t *testing.T) {
		guard := NewGuard(pendingResolver{}, logger)
		r := httptest.NewRequest("GET", "/mypage", nil)
		r.Header.Set("Authorization", "Bearer anything")
		state := guard.FromRequest(r)
		assert.Equal(t, Loading, state.Kind)
		assert.Nil(t, state.Session)
	})
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer tok-123")
		assert.Equal(t, "tok-123", TokenFromRequest(r))
	})

	t.Run("cookie fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-tok"})
		assert.Equal(t, "cookie-tok", TokenFromRequest(r))
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer header-tok")
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-tok"})
		assert.Equal(t, "header-tok", TokenFromRequest(r))
	})

	t.Run("malformed header yields nothing", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Basic abc")
		assert.Equal(t, "", TokenFromRequest(r))
	})

	t.Run("absent everywhere", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, "", TokenFromRequest(r))
	})
}
