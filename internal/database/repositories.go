package database

import (
	"context"
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// ProfileRepositoryInterface defines the interface for profile repository operations
// This interface enables better testability by allowing mock implementations
type ProfileRepositoryInterface interface {
	Insert(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
}

// CheckInRepositoryInterface defines the interface for check-in repository operations
type CheckInRepositoryInterface interface {
	Create(ctx context.Context, checkIn *models.CheckIn) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.CheckIn, error)
	ListRefs(ctx context.Context) ([]models.CheckInRef, error)
	ListRecentWithOwner(ctx context.Context, limit int) ([]*models.CheckInWithOwner, error)
	LastCheckInPerProfile(ctx context.Context) (map[uuid.UUID]time.Time, error)
}

// MessageRepositoryInterface defines the interface for message repository operations
type MessageRepositoryInterface interface {
	Create(ctx context.Context, message *models.Message) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Message, error)
}

// Ensure concrete types implement the interfaces
var (
	_ ProfileRepositoryInterface = (*ProfileRepository)(nil)
	_ CheckInRepositoryInterface = (*CheckInRepository)(nil)
	_ MessageRepositoryInterface = (*MessageRepository)(nil)
)
