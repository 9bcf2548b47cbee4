package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Insert creates a new profile row. A unique-constraint violation is
// returned unwrapped so callers can detect it with IsUniqueViolation.
func (r *ProfileRepository) Insert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, name, tier, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.Name,
		profile.Tier,
		profile.IsAdmin,
		now,
		now,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by its identity ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, email, name, tier, is_admin, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.Tier,
		&profile.IsAdmin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// GetByEmail retrieves a profile by email address
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, email, name, tier, is_admin, created_at, updated_at
		FROM profiles
		WHERE email = $1
	`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.Tier,
		&profile.IsAdmin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// ListAll retrieves all profiles ordered newest-first
func (r *ProfileRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT id, email, name, tier, is_admin, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.Name,
			&profile.Tier,
			&profile.IsAdmin,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// SetAdmin updates a profile's admin flag
func (r *ProfileRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	query := `UPDATE profiles SET is_admin = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, isAdmin, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}

// SetTier updates a profile's tier
func (r *ProfileRepository) SetTier(ctx context.Context, id uuid.UUID, tier models.Tier) error {
	if !tier.IsValid() {
		return fmt.Errorf("invalid tier: %s", tier)
	}

	query := `UPDATE profiles SET tier = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, tier, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update tier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}
