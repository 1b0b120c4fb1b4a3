package models

import "time"

// Session is the server-side login session row. The browser only holds a
// signed token referencing it; this row is the authority for revocation and
// carries the per-session anti-forgery secret.
type Session struct {
	ID         string    `gorm:"primaryKey;size:64"`
	UserID     uint      `gorm:"index;not null"`
	CSRFSecret string    `gorm:"size:64;not null"`
	ExpiresAt  time.Time `gorm:"index;not null"`
	Revoked    bool      `gorm:"index;not null"`
	CreatedAt  time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
