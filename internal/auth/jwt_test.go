package auth_test

import (
	"testing"
	"time"

	"collabkanban/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	tokens := auth.NewTokens("test-secret-key", 24*time.Hour)

	// Генерируем токен
	accountID := "test-account-id"
	token, err := tokens.Generate(accountID)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Парсим токен
	parsed, err := tokens.Parse(token)

	assert.NoError(t, err)
	assert.Equal(t, accountID, parsed)
}

func TestParseToken_InvalidToken(t *testing.T) {
	tokens := auth.NewTokens("test-secret-key", time.Hour)

	_, err := tokens.Parse("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := auth.NewTokens("other-secret", time.Hour).Generate("id")

	_, err := auth.NewTokens("test-secret-key", time.Hour).Parse(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Создаем токен с истекшим сроком действия
	claims := jwt.MapClaims{
		"account_id": "test-account-id",
		"exp":        time.Now().Add(-1 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte("test-secret-key"))

	_, err := auth.NewTokens("test-secret-key", time.Hour).Parse(expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	// Токен без ID аккаунта
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutID, _ := token.SignedString([]byte("test-secret-key"))

	_, err := auth.NewTokens("test-secret-key", time.Hour).Parse(tokenWithoutID)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
	assert.Equal(t, "invalid claims", err.Error())
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("password123")

	assert.NoError(t, err)
	assert.True(t, auth.CheckPassword(hash, "password123"))
	assert.False(t, auth.CheckPassword(hash, "wrong_password"))
}
