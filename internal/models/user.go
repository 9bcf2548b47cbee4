package models

import (
	"github.com/google/uuid"
)

// Identity is the externally managed authentication subject: the auth
// provider owns its credentials and lifecycle, this service only
// references it.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	// Name is the display name supplied at sign-up, if any
	Name string `json:"name,omitempty"`
}

// User is the fully resolved current user: the join of an Identity with
// its Profile. A User is never partially populated; callers either hold a
// complete User or nil.
type User struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Tier    Tier      `json:"tier"`
	IsAdmin bool      `json:"is_admin"`
}

// UserFromProfile builds the joined current-user view from a resolved
// profile.
func UserFromProfile(p *Profile) *User {
	return &User{
		ID:      p.ID,
		Email:   p.Email,
		Name:    p.DisplayName(),
		Tier:    p.Tier,
		IsAdmin: p.IsAdmin,
	}
}
