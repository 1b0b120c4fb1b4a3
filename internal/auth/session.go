package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"zaiko-backend/internal/database"
	"zaiko-backend/internal/models"

	"github.com/google/uuid"
)

const sessionTTL = 24 * time.Hour

// CookieName is the session cookie issued at login.
const CookieName = "session_token"

const (
	CSRFResponseHeader = "X-CSRF-Token"
	CSRFRequestHeader  = "x-csrf-token"
)

// NewSession creates the server-side session row with a fresh per-session
// anti-forgery secret.
func NewSession(userID uint) (*models.Session, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}

	s := &models.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		CSRFSecret: hex.EncodeToString(secret),
		ExpiresAt:  time.Now().Add(sessionTTL),
	}
	if err := database.DB.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// CSRFToken derives the anti-forgery token from the session's secret. The
// value is stable for the lifetime of the session, so validation is a
// recompute-and-compare.
func CSRFToken(s *models.Session) string {
	mac := hmac.New(sha256.New, []byte(s.CSRFSecret))
	mac.Write([]byte(s.ID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyCSRFToken(s *models.Session, token string) bool {
	if token == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(CSRFToken(s)))
}

func RevokeSession(s *models.Session) error {
	return database.DB.Model(s).Update("revoked", true).Error
}
