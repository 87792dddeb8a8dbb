package session

import "github.com/dmitrijs2005/cupid/internal/client/models"

type Status int

const (
	StatusUnknown Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. Snapshots are values: CurrentUser is a
// private copy and may be kept or modified by the receiver.
type State struct {
	Status        Status
	Authenticated bool
	Loading       bool
	// LastError is the localized message of the last failed operation.
	LastError   string
	CurrentUser *models.Profile
}

func (s State) clone() State {
	s.CurrentUser = s.CurrentUser.Clone()
	return s
}
