package domain

import "time"

// Presence is derived state: Online flips on connection-count
// transitions only, never on individual disconnects while other
// sessions remain open.
type Presence struct {
	UserID   UserID
	Online   bool
	LastSeen time.Time
}

// Identity is what the Auth collaborator returns for a verified token.
type Identity struct {
	UserID   UserID
	Username string
}

// Profile holds the public fields exposed by the user directory.
type Profile struct {
	ID       UserID
	Username string
	Avatar   string
}
