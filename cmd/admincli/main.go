package main

import (
	"fmt"
	"os"

	"github.com/embodywellness/member-api/cmd/admincli/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "member-admin",
		Short: "Operator tool for the member API",
		Long:  "CLI tool for managing member accounts, coach access, and tiers",
	}

	rootCmd.AddCommand(commands.NewMembersCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())
	rootCmd.AddCommand(commands.NewTierCmd())
	rootCmd.AddCommand(commands.NewOverviewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
