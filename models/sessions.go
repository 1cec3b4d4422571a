package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// SessionTTL is how long a session stays valid. Sessions are not
// extended on use; after this the user signs in again.
const SessionTTL = 7 * 24 * time.Hour

// tokenBytes is the entropy of a session or OAuth state token.
const tokenBytes = 32

// Session is a server-side login session, keyed by the token stored in
// the session_token cookie.
type Session struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SessionToken string `gorm:"uniqueIndex;not null" json:"session_token"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"-"`

	// Where the session was opened from
	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`

	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// NewSession builds an unsaved session for a user with a fresh random
// token and the standard lifetime.
func NewSession(userID uint, userAgent, ipAddress string) (*Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		SessionToken:   token,
		UserID:         userID,
		UserAgent:      userAgent,
		IPAddress:      ipAddress,
		ExpiresAt:      now.Add(SessionTTL),
		LastAccessedAt: now,
	}, nil
}

// GenerateSessionToken returns a URL-safe random token. The OAuth state
// cookie uses the same generator.
func GenerateSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records that the session was just used.
func (s *Session) Touch(db *gorm.DB) error {
	s.LastAccessedAt = time.Now()
	return db.Model(s).Update("last_accessed_at", s.LastAccessedAt).Error
}
