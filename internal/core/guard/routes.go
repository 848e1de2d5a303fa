package guard

import (
	"net/http"

	"github.com/storefront/backoffice/internal/core/domain"
)

// Rule is the access declaration of a single route.
type Rule struct {
	Public     bool              `json:"public"`
	Capability domain.Capability `json:"capability,omitempty"`
}

// Table maps route identifiers to their declaration. API routes are keyed
// by "METHOD /path-template", client screens by their path.
type Table map[string]Rule

// APIRoute builds the table key of an API route.
func APIRoute(method, path string) string {
	return method + " " + path
}

var (
	public        = Rule{Public: true}
	userManage    = Rule{Capability: domain.CapUserManage}
	management    = Rule{Capability: domain.CapManagement}
	staffArea     = Rule{Capability: domain.CapStaffPage}
	authenticated = Rule{}
)

// Screen paths used as redirect targets.
const (
	LoginScreen      = "/auth/login"
	StaffLoginScreen = "/staff/login"
	AdminLanding     = "/"
	StaffLanding     = "/staff"
)

// DefaultTable is the route declaration shared by the API middleware and the
// client navigation guard. Routes absent from it require authentication only.
func DefaultTable() Table {
	return Table{
		// Public API.
		APIRoute(http.MethodPost, "/staff/login"): public,
		APIRoute(http.MethodPost, "/admin/login"): public,
		APIRoute(http.MethodGet, "/auth/routes"):  public,
		APIRoute(http.MethodGet, "/health"):       public,
		APIRoute(http.MethodGet, "/health/ready"): public,
		APIRoute(http.MethodGet, "/metrics"):      public,
		APIRoute(http.MethodGet, "/swagger/*"):    public,

		// Session.
		APIRoute(http.MethodPost, "/auth/logout"): authenticated,
		APIRoute(http.MethodGet, "/auth/session"): authenticated,

		// Credential issuance and user directory.
		APIRoute(http.MethodPost, "/admin/credentials"): userManage,
		APIRoute(http.MethodPost, "/staff/credentials"): userManage,
		APIRoute(http.MethodGet, "/users"):              userManage,
		APIRoute(http.MethodGet, "/users/:id"):          userManage,
		APIRoute(http.MethodDelete, "/users/:id"):       userManage,

		// Client screens.
		LoginScreen:      public,
		StaffLoginScreen: public,

		"/staff":            staffArea,
		"/staff-management": staffArea,
		"/appointments":     authenticated,

		"/":                   management,
		"/purchases":          management,
		"/suppliers":          management,
		"/customers":          management,
		"/marketing":          management,
		"/promotions":         management,
		"/products":           management,
		"/invoices":           management,
		"/installments":       management,
		"/expenses":           management,
		"/expense-categories": management,
		"/reports":            management,
		"/inventory-reports":  management,
		"/barcodes":           management,
		"/settings":           management,
	}
}

// FromEntries rebuilds a Table from its published form.
func FromEntries(entries []Entry) Table {
	t := make(Table, len(entries))
	for _, e := range entries {
		t[e.Route] = e.Rule
	}
	return t
}
