package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/embodywellness/member-api/internal/config"
	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/models"
)

// withDatabase loads config, opens the database, runs fn, and closes the
// connection afterwards
func withDatabase(fn func(ctx context.Context, db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	return fn(context.Background(), db)
}

// findProfileByEmail resolves a member account by email address
func findProfileByEmail(ctx context.Context, db *database.DB, email string) (*models.Profile, error) {
	profiles := database.NewProfileRepository(db)
	profile, err := profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("no account with email %s: %w", email, err)
	}
	return profile, nil
}
