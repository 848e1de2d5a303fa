package domain

import "time"

// AuthEventKind names the kind of entry written to the audit trail.
type AuthEventKind string

const (
	EventLogin            AuthEventKind = "login"
	EventLogout           AuthEventKind = "logout"
	EventPrincipalCreated AuthEventKind = "principal_created"
	EventPrincipalDeleted AuthEventKind = "principal_deleted"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
)

// AuthEvent is an audit record of an identity-affecting action.
type AuthEvent struct {
	Kind        AuthEventKind `json:"kind"`
	Username    string        `json:"username"`
	PrincipalID int64         `json:"principalId,omitempty"`
	Role        Role          `json:"role,omitempty"`
	Outcome     string        `json:"outcome"`
	RemoteIP    string        `json:"remoteIp,omitempty"`
	At          time.Time     `json:"at"`
}
