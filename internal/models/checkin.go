package models

import (
	"time"

	"github.com/google/uuid"
)

// Energy level bounds for a check-in
const (
	MinEnergyLevel = 1
	MaxEnergyLevel = 10
)

// CheckIn is a member's self-reported wellness snapshot. Check-ins are
// append-only: they are never updated or deleted by this service.
type CheckIn struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Weight      float64   `json:"weight"`
	EnergyLevel int       `json:"energy_level"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckInRef is the minimal projection of a check-in used for client-side
// aggregation: full retrieval, then counting in memory.
type CheckInRef struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckInWithOwner joins a check-in with its owning profile's display
// fields for the admin listing.
type CheckInWithOwner struct {
	CheckIn
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

// ProgressPoint is one point of a member's progress time series, consumed
// read-only by chart rendering.
type ProgressPoint struct {
	Day    string  `json:"day"`
	Weight float64 `json:"weight"`
	Energy int     `json:"energy"`
}
