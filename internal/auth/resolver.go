// Package auth holds the client-facing authentication core: the profile
// resolver that lazily provisions application profiles for authenticated
// identities, and the orchestrator that keeps the process-wide current
// user consistent with the auth provider's session state.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/metrics"
	"github.com/embodywellness/member-api/internal/models"
	"go.uber.org/zap"
)

// Resolver turns an authenticated identity into its application profile,
// creating the profile row on first contact. Resolution is idempotent:
// concurrent resolutions for the same identity produce exactly one row.
type Resolver struct {
	profiles database.ProfileRepositoryInterface
	log      *zap.Logger
	stats    *metrics.Collector
}

// NewResolver creates a profile resolver
func NewResolver(profiles database.ProfileRepositoryInterface, log *zap.Logger, stats *metrics.Collector) *Resolver {
	return &Resolver{
		profiles: profiles,
		log:      log,
		stats:    stats,
	}
}

// Resolve fetches the profile for ident, inserting a default one when
// none exists yet. Any failure other than the expected no-rows condition
// wraps models.ErrProfileUnavailable.
func (r *Resolver) Resolve(ctx context.Context, ident models.Identity) (*models.Profile, error) {
	profile, err := r.profiles.GetByID(ctx, ident.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		// Connectivity failure, permission denial, etc.
		return nil, fmt.Errorf("%w: fetch failed: %v", models.ErrProfileUnavailable, err)
	}

	name := ident.Name
	if name == "" {
		name = ident.Email
	}
	profile = &models.Profile{
		ID:      ident.ID,
		Email:   ident.Email,
		Name:    &name,
		Tier:    models.TierFoundation,
		IsAdmin: false,
	}

	if err := r.profiles.Insert(ctx, profile); err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the insert race to a concurrent resolution for the same
			// identity; the existing row wins.
			existing, fetchErr := r.profiles.GetByID(ctx, ident.ID)
			if fetchErr != nil {
				return nil, fmt.Errorf("%w: re-fetch after conflict failed: %v", models.ErrProfileUnavailable, fetchErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%w: insert failed: %v", models.ErrProfileUnavailable, err)
	}

	r.stats.RecordProfileCreation()
	r.log.Info("profile_created",
		zap.String("profile_id", profile.ID.String()),
		zap.String("tier", string(profile.Tier)),
	)

	return profile, nil
}
