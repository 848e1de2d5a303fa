package domain

import "time"

// Role is the authorisation class of a principal.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is one of the known principal roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Principal models an identity able to authenticate: an administrator or a
// staff member. CredentialHash never leaves the core.
type Principal struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	CredentialHash string    `json:"-"`
	Role           Role      `json:"role"`
	StaffID        *int64    `json:"staffId,omitempty"`
	Name           *string   `json:"name,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PrincipalView is the representation of a principal returned across the
// API boundary. It has no credential field at all.
type PrincipalView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	StaffID   *int64    `json:"staffId"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// View strips the credential hash.
func (p *Principal) View() PrincipalView {
	return PrincipalView{
		ID:        p.ID,
		Username:  p.Username,
		Role:      p.Role,
		StaffID:   p.StaffID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

// DisplayName returns the optional name, falling back to the username.
func (p *Principal) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Username
}
