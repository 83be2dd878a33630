// Package jwt выпускает и проверяет JWT токены доступа.
//
// Идентификатор пользователя хранится в стандартном поле sub, поэтому
// токены внешнего провайдера аутентификации с тем же секретом (HS256)
// принимаются без доработок.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSubject возвращается, если в токене нет идентификатора пользователя.
var ErrMissingSubject = errors.New("token has no subject")

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	GenerateToken(userID, email string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims — данные, хранящиеся в токене.
type CustomClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID возвращает идентификатор пользователя из поля sub.
func (c *CustomClaims) UserID() string {
	return c.Subject
}

// MakerImpl подписывает токены секретным ключом и выставляет срок жизни tokenTTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken создаёт токен для пользователя.
func (j *MakerImpl) GenerateToken(userID, email string) (string, error) {
	const op = "jwt.GenerateToken"
	if userID == "" {
		return "", fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}
	now := time.Now()
	claims := CustomClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken проверяет подпись, срок действия и наличие sub.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}
	return claims, nil
}
