package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/embodywellness/member-api/internal/dashboard"
	"github.com/embodywellness/member-api/internal/database"
)

// NewOverviewCmd creates the overview command
func NewOverviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print a dashboard snapshot",
		Long:  "Print member totals, tier distribution, and recent check-in activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				profiles := database.NewProfileRepository(db)
				checkIns := database.NewCheckInRepository(db)

				all, err := profiles.ListAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to list members: %w", err)
				}

				refs, err := checkIns.ListRefs(ctx)
				if err != nil {
					return fmt.Errorf("failed to list check-ins: %w", err)
				}

				cutoff := time.Now().Add(-7 * 24 * time.Hour)

				fmt.Printf("Members:           %d\n", len(all))
				fmt.Printf("Check-ins (total): %d\n", len(refs))
				fmt.Printf("Check-ins (7d):    %d\n", dashboard.CountSince(refs, cutoff))

				byTier := dashboard.CountByTier(all)
				if len(byTier) > 0 {
					fmt.Println("By tier:")
					for _, tc := range byTier {
						fmt.Printf("  %-15s %d\n", tc.Tier, tc.Count)
					}
				}

				return nil
			})
		},
	}

	return cmd
}
