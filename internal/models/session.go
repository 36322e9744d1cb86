package models

import "time"

// Session is a sticky egress session held by the rotation manager on the
// backend.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Duration  int64     `json:"duration"`
	IP        string    `json:"ip,omitempty"`
	Location  string    `json:"location,omitempty"`
}

func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

func (s *Session) Remaining() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}
