package main

import (
	"github.com/sprintflow/scoring/internal/db"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the scoring tables when they are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.ApplySchema(cmd.Context(), dbPool); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}
