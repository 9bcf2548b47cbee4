package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embodywellness/member-api/internal/database"
)

// NewAdminCmd creates the admin command with promote/demote subcommands
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage coach (admin) access",
	}

	cmd.AddCommand(newSetAdminCmd("promote", true))
	cmd.AddCommand(newSetAdminCmd("demote", false))

	return cmd
}

func newSetAdminCmd(verb string, isAdmin bool) *cobra.Command {
	short := "Grant coach access to a member"
	if !isAdmin {
		short = "Revoke coach access from a member"
	}

	return &cobra.Command{
		Use:   verb + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			return withDatabase(func(ctx context.Context, db *database.DB) error {
				profile, err := findProfileByEmail(ctx, db, email)
				if err != nil {
					return err
				}

				if profile.IsAdmin == isAdmin {
					fmt.Printf("No change: %s coach access is already %v\n", email, isAdmin)
					return nil
				}

				profiles := database.NewProfileRepository(db)
				if err := profiles.SetAdmin(ctx, profile.ID, isAdmin); err != nil {
					return fmt.Errorf("failed to update coach access: %w", err)
				}

				fmt.Printf("Set coach access for %s to %v\n", email, isAdmin)
				return nil
			})
		},
	}
}
