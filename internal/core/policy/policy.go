// Package policy evaluates whether a role may exercise a capability.
//
// The role grants are built once at process start and never mutated; a
// Policy is safe for concurrent use and holds no per-request state.
package policy

import (
	"sort"

	"github.com/storefront/backoffice/internal/core/domain"
)

// DefaultStaffCapabilities is the staff grant used when none is configured.
var DefaultStaffCapabilities = []domain.Capability{domain.CapStaffPage}

// Policy maps roles to their granted capabilities.
type Policy struct {
	staff map[domain.Capability]struct{}
}

// New builds a Policy granting staff exactly the given capabilities.
// Administrators are not listed: they hold every capability.
func New(staffCapabilities []domain.Capability) *Policy {
	staff := make(map[domain.Capability]struct{}, len(staffCapabilities))
	for _, c := range staffCapabilities {
		if c == domain.CapNone {
			continue
		}
		staff[c] = struct{}{}
	}
	return &Policy{staff: staff}
}

// IsAuthorized reports whether role may access a route requiring capability
// required. An empty or unknown role (no session) is never authorized.
func (p *Policy) IsAuthorized(role domain.Role, required domain.Capability) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleStaff:
		if required == domain.CapNone {
			return true
		}
		_, ok := p.staff[required]
		return ok
	default:
		return false
	}
}

// Grants returns the capabilities held by role, sorted. Administrators
// return nil because their access is unconditional.
func (p *Policy) Grants(role domain.Role) []domain.Capability {
	if role != domain.RoleStaff {
		return nil
	}
	out := make([]domain.Capability, 0, len(p.staff))
	for c := range p.staff {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
