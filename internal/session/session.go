package session

import (
	"errors"

	"github.com/google/uuid"
)

// Staff roles allowed to manage the catalog (and therefore to upload
// product images). Customer accounts carry UserTypeCustomer instead.
const (
	RoleOwner    = "OWNER"
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

const (
	UserTypeCustomer = "customer"
	UserTypeAdmin    = "admin"
)

// ErrResolutionPending is returned by a Resolver while the session is
// still being materialized. Callers must treat this as "not yet known",
// never as "logged out".
var ErrResolutionPending = errors.New("session resolution in progress")

// Session is the resolved identity of the current actor. It is minted by
// the external auth provider at login and read-only to this system.
type Session struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	UserType    string    `json:"userType"`
}

// IsStaff reports whether the session belongs to a staff account
// (owner, admin or operator tier).
func (s *Session) IsStaff() bool {
	switch s.Role {
	case RoleOwner, RoleAdmin, RoleOperator:
		return true
	}
	return false
}

// IsCustomer reports whether the session belongs to a customer account.
func (s *Session) IsCustomer() bool {
	return s.UserType == UserTypeCustomer
}

// Kind tags a State.
type Kind int

const (
	// Loading means session resolution is in flight. The UI must not
	// act on it, and in particular must not redirect to login.
	Loading Kind = iota
	// Anonymous means there is definitively no session.
	Anonymous
	// Authenticated means the session resolved to a concrete identity.
	Authenticated
)

// State is the tagged tri-state the guard hands to page handlers:
// Loading, Anonymous, or Authenticated with a Session attached.
type State struct {
	Kind    Kind
	Session *Session
}

// Pending returns the Loading state.
func Pending() State {
	return State{Kind: Loading}
}

// None returns the Anonymous state.
func None() State {
	return State{Kind: Anonymous}
}

// Resolved returns an Authenticated state carrying sess.
func Resolved(sess *Session) State {
	return State{Kind: Authenticated, Session: sess}
}
