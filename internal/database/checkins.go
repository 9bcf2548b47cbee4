package database

import (
	"context"
	"fmt"
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// CheckInRepository handles check-in database operations. Check-ins are
// append-only; there are no update or delete operations.
type CheckInRepository struct {
	db *DB
}

// NewCheckInRepository creates a new check-in repository
func NewCheckInRepository(db *DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Create inserts a new check-in row
func (r *CheckInRepository) Create(ctx context.Context, checkIn *models.CheckIn) error {
	query := `
		INSERT INTO check_ins (id, profile_id, weight, energy_level, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		checkIn.ID,
		checkIn.ProfileID,
		checkIn.Weight,
		checkIn.EnergyLevel,
		checkIn.Notes,
		time.Now(),
	).Scan(&checkIn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert check-in: %w", err)
	}

	return nil
}

// ListByProfile retrieves a member's full check-in history, ascending by
// creation time.
func (r *CheckInRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.CheckIn, error) {
	query := `
		SELECT id, profile_id, weight, energy_level, notes, created_at
		FROM check_ins
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []*models.CheckIn
	for rows.Next() {
		checkIn := &models.CheckIn{}
		if err := rows.Scan(
			&checkIn.ID,
			&checkIn.ProfileID,
			&checkIn.Weight,
			&checkIn.EnergyLevel,
			&checkIn.Notes,
			&checkIn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkIns = append(checkIns, checkIn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-ins: %w", err)
	}

	return checkIns, nil
}

// ListRefs retrieves the (id, profile_id, created_at) projection of every
// check-in, newest-first. Aggregation happens in memory after full
// retrieval; no server-side aggregation is assumed.
func (r *CheckInRepository) ListRefs(ctx context.Context) ([]models.CheckInRef, error) {
	query := `
		SELECT id, profile_id, created_at
		FROM check_ins
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-in refs: %w", err)
	}
	defer rows.Close()

	var refs []models.CheckInRef
	for rows.Next() {
		var ref models.CheckInRef
		if err := rows.Scan(&ref.ID, &ref.ProfileID, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in ref: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-in refs: %w", err)
	}

	return refs, nil
}

// ListRecentWithOwner retrieves the most recent check-ins joined with
// their owning profile's name and email, newest-first.
func (r *CheckInRepository) ListRecentWithOwner(ctx context.Context, limit int) ([]*models.CheckInWithOwner, error) {
	query := `
		SELECT c.id, c.profile_id, c.weight, c.energy_level, c.notes, c.created_at,
		       COALESCE(NULLIF(p.name, ''), p.email), p.email
		FROM check_ins c
		JOIN profiles p ON p.id = c.profile_id
		ORDER BY c.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []*models.CheckInWithOwner
	for rows.Next() {
		checkIn := &models.CheckInWithOwner{}
		if err := rows.Scan(
			&checkIn.ID,
			&checkIn.ProfileID,
			&checkIn.Weight,
			&checkIn.EnergyLevel,
			&checkIn.Notes,
			&checkIn.CreatedAt,
			&checkIn.OwnerName,
			&checkIn.OwnerEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent check-in: %w", err)
		}
		checkIns = append(checkIns, checkIn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent check-ins: %w", err)
	}

	return checkIns, nil
}

// LastCheckInPerProfile retrieves each member's most recent check-in
// timestamp in one bulk lookup.
func (r *CheckInRepository) LastCheckInPerProfile(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	query := `
		SELECT profile_id, MAX(created_at)
		FROM check_ins
		GROUP BY profile_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query last check-ins: %w", err)
	}
	defer rows.Close()

	last := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var profileID uuid.UUID
		var createdAt time.Time
		if err := rows.Scan(&profileID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan last check-in: %w", err)
		}
		last[profileID] = createdAt
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate last check-ins: %w", err)
	}

	return last, nil
}
