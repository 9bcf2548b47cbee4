package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier classifies a member's coaching program. It is a display grouping
// only and carries no access-control meaning; admin access is gated by
// Profile.IsAdmin.
type Tier string

// Valid tier values
const (
	TierFoundation     Tier = "foundation"
	TierTransformation Tier = "transformation"
	TierLifetime       Tier = "lifetime"
)

// IsValid reports whether t is a known tier value
func (t Tier) IsValid() bool {
	switch t {
	case TierFoundation, TierTransformation, TierLifetime:
		return true
	default:
		return false
	}
}

// Profile is the application-level member record, keyed 1:1 by the auth
// provider's subject ID. Exactly one profile exists per identity; it is
// created lazily on first sign-in if missing.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Tier      Tier      `json:"tier"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the profile's name, falling back to the email
// address when no name was ever provided.
func (p *Profile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Email
}
