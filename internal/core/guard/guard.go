// Package guard is the route guard shared by the API middleware and the
// client navigation layer. Both consult the same Table through the same
// Check, so they reach the same decision for the same (role, route) pair.
// The server decision is authoritative; the client one is advisory.
package guard

import (
	"sort"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/policy"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Err returns the domain error matching the decision, nil for Allow.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case Unauthenticated:
		return domain.ErrUnauthenticated
	default:
		return domain.ErrForbidden
	}
}

// Guard evaluates route access against a Table and a Policy.
type Guard struct {
	policy *policy.Policy
	table  Table
}

// New returns a Guard over table. A nil table means DefaultTable.
func New(p *policy.Policy, table Table) *Guard {
	if table == nil {
		table = DefaultTable()
	}
	return &Guard{policy: p, table: table}
}

// Rule returns the declaration of route. Undeclared routes require
// authentication and no capability.
func (g *Guard) Rule(route string) Rule {
	return g.table[route]
}

// Check decides whether the holder of s may access route. A nil session
// is the unauthenticated actor.
func (g *Guard) Check(s *domain.Session, route string) Decision {
	rule := g.Rule(route)
	if rule.Public {
		return Allow
	}
	if s == nil {
		return Unauthenticated
	}
	if !g.policy.IsAuthorized(s.Role, rule.Capability) {
		return Forbidden
	}
	return Allow
}

// Landing is the neutral screen a principal is sent to when a screen is
// denied, and after login when no path was remembered.
func (g *Guard) Landing(role domain.Role) string {
	if role == domain.RoleStaff {
		return StaffLanding
	}
	return AdminLanding
}

// Entry is one row of the published route table.
type Entry struct {
	Route string `json:"route"`
	Rule
}

// Entries returns the table sorted by route, for publication to clients.
func (g *Guard) Entries() []Entry {
	out := make([]Entry, 0, len(g.table))
	for route, rule := range g.table {
		out = append(out, Entry{Route: route, Rule: rule})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

// Policy exposes the policy the guard evaluates with.
func (g *Guard) Policy() *policy.Policy {
	return g.policy
}
