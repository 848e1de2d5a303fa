package domain

import "time"

// Session is the ephemeral record of an authenticated principal. Role is a
// copy taken at login; later changes to the principal do not touch it.
type Session struct {
	ID          string    `json:"-"`
	PrincipalID int64     `json:"principalId"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	StaffID     *int64    `json:"staffId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// IsExpired reports whether the session is no longer valid at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
