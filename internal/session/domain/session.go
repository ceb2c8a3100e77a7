package domain

import "time"

// Session is a persisted refresh credential. Only the sha256 digest of the
// opaque token is stored; RawToken is set once, when the session is issued.
type Session struct {
	ID        string
	TokenHash string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
	RawToken  string
}
