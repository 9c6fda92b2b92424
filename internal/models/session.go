package models

import "time"

// SessionStatus represents the state of the login gate for a session.
type SessionStatus string

const (
	SessionStatusLocked   SessionStatus = "locked"
	SessionStatusUnlocked SessionStatus = "unlocked"
)

// Session is the public view of a configurator session.
type Session struct {
	ID           string        `json:"id"`
	Status       SessionStatus `json:"status"`
	User         string        `json:"user,omitempty"` // Email given at login or signup
	CreatedAt    time.Time     `json:"createdAt"`
	LastAccessed time.Time     `json:"lastAccessed"`
	Revision     uint64        `json:"revision"`
}

// Credentials is the body of a login or signup form.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
