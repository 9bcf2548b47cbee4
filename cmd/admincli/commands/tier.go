package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/models"
	"github.com/embodywellness/member-api/internal/validation"
)

// NewTierCmd creates the tier command
func NewTierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Manage membership tiers",
	}

	setCmd := &cobra.Command{
		Use:   "set <email> <tier>",
		Short: "Set a member's tier (foundation, transformation, lifetime)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, tierValue := args[0], args[1]
			if err := validation.ValidateTier(tierValue); err != nil {
				return err
			}

			return withDatabase(func(ctx context.Context, db *database.DB) error {
				profile, err := findProfileByEmail(ctx, db, email)
				if err != nil {
					return err
				}

				tier := models.Tier(tierValue)
				if profile.Tier == tier {
					fmt.Printf("No change: %s is already on %s\n", email, tier)
					return nil
				}

				profiles := database.NewProfileRepository(db)
				if err := profiles.SetTier(ctx, profile.ID, tier); err != nil {
					return fmt.Errorf("failed to update tier: %w", err)
				}

				fmt.Printf("Moved %s from %s to %s\n", email, profile.Tier, tier)
				return nil
			})
		},
	}

	cmd.AddCommand(setCmd)
	return cmd
}
