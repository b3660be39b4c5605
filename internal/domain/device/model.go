package device

import "time"

// Computer is the one-row identity record for this installation.
type Computer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
	Synced       bool      `json:"synced"`
}

// UserLink binds this installation to a remote account.
type UserLink struct {
	UserID   string    `json:"user_id"`
	LinkedAt time.Time `json:"linked_at"`
}
