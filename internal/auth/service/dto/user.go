package dto

import (
	"encoding/json"
	"time"
)

// User is the public shape of a stored user: id, username and created_at
// next to the profile fields flattened into the same object. PasswordHash is
// only written when set.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	Profile      map[string]any
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Profile)+4)
	for k, v := range u.Profile {
		out[k] = v
	}
	out["id"] = u.ID
	out["username"] = u.Username
	out["created_at"] = u.CreatedAt.UTC().Format(time.RFC3339)
	if u.PasswordHash != "" {
		out["password"] = u.PasswordHash
	} else {
		delete(out, "password")
	}
	return json.Marshal(out)
}
