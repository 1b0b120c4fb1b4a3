package auth

import (
	"fmt"
	"time"

	"zaiko-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	SessionID string `json:"session_id"`
	UserID    uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// SignSessionToken produces the signed cookie value for a session. The token
// only references the session row; revocation happens server-side.
func SignSessionToken(secret string, s *models.Session) (string, error) {
	claims := &SessionClaims{
		SessionID: s.ID,
		UserID:    s.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(secret, tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("could not read session claims")
	}
	return claims, nil
}
