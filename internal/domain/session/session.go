package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is what the backends persist. Key is the digest of the cookie
// token, never the token itself.
type Session struct {
	Key       string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
