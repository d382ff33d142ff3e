package model

import "time"

// User roles within the portal.
const (
	RoleArtist   = "artist"
	RoleManager  = "manager"
	RoleDirector = "director"
)

// User represents a portal account: an artist, a manager or a director.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not exposed in API responses
	Role         string    `json:"role"`
	StageName    string    `json:"stageName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CanModerate reports whether the user may review submitted releases.
func (u *User) CanModerate() bool {
	return u.Role == RoleManager || u.Role == RoleDirector
}
