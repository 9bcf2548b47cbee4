package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embodywellness/member-api/internal/database"
)

// NewMembersCmd creates the members command
func NewMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List member accounts",
		Long:  "List all member accounts with tier, coach flag, and last check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				profiles := database.NewProfileRepository(db)
				checkIns := database.NewCheckInRepository(db)

				all, err := profiles.ListAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to list members: %w", err)
				}

				if len(all) == 0 {
					fmt.Println("No members found")
					return nil
				}

				lastByProfile, err := checkIns.LastCheckInPerProfile(ctx)
				if err != nil {
					return fmt.Errorf("failed to load last check-ins: %w", err)
				}

				fmt.Printf("%d members:\n", len(all))
				for _, profile := range all {
					fmt.Printf("  - %s (%s)\n", profile.DisplayName(), profile.Email)
					fmt.Printf("    ID: %s\n", profile.ID)
					fmt.Printf("    Tier: %s\n", profile.Tier)
					if profile.IsAdmin {
						fmt.Println("    Coach: yes")
					}
					if last, ok := lastByProfile[profile.ID]; ok {
						fmt.Printf("    Last check-in: %s\n", last.Format("2006-01-02"))
					} else {
						fmt.Println("    Last check-in: never")
					}
					fmt.Println()
				}

				return nil
			})
		},
	}

	return cmd
}
