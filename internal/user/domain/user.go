package domain

import "time"

type ID string

// User is a stored account. Profile holds the extra registration fields
// kept verbatim next to the credentials.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	Profile      map[string]any
	CreatedAt    time.Time
}

type NewUser struct {
	Username     string
	PasswordHash string
	Profile      map[string]any
}
