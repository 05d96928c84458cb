package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weld-oee/backend/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(e.db, e.cfg.Database.Driver, e.logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}
