package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker("test_secret_key_1234567890", tokenTTL)

	tests := []struct {
		name   string
		userID string
		email  string
	}{
		{name: "uuid subject", userID: "0f8fad5b-d9cb-469f-a165-70867728950e", email: "ana@example.com"},
		{name: "no email", userID: "user-42", email: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID())
			assert.Equal(t, tt.email, claims.Email)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_GenerateToken_EmptySubject(t *testing.T) {
	maker := NewJWTMaker("secret", time.Minute)
	_, err := maker.GenerateToken("", "x@example.com")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestJWTMaker_ParseToken_Invalid(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	validToken, err := maker.GenerateToken("user-1", "")
	require.NoError(t, err)

	expired, err := NewJWTMaker(secretKey, -time.Hour).GenerateToken("user-1", "")
	require.NoError(t, err)

	wrongSecret, err := NewJWTMaker("wrong_secret_key", time.Minute).GenerateToken("user-1", "")
	require.NoError(t, err)

	noSubject, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, CustomClaims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString([]byte(secretKey))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret key", token: wrongSecret},
		{name: "tampered token", token: validToken + "tampered"},
		{name: "missing subject", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
