package domain

// Capability is a named permission a route may require. The empty
// capability means the route carries no restriction beyond authentication.
type Capability string

const (
	CapNone Capability = ""

	// CapStaffPage opens the staff area screens.
	CapStaffPage Capability = "staff_page"

	// CapManagement covers the administrator back-office screens.
	CapManagement Capability = "management"

	// CapUserManage covers credential issuance and the user directory.
	CapUserManage Capability = "user_manage"
)
