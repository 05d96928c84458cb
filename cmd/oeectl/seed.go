package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weld-oee/backend/internal/repository"
	"weld-oee/backend/internal/seed"
	"weld-oee/backend/pkg/database"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create accounts and catalog entries from a YAML file",
	Long: `seed inserts the users, workers, modules, components and stoppage
types listed in the file. Entries that already exist are left untouched.
Without --file the built-in starter data is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := seed.Load(seedFile)
		if err != nil {
			return err
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(e.db, e.cfg.Database.Driver, e.logger); err != nil {
			return err
		}
		sum, err := seed.Apply(cmd.Context(), repository.NewRepository(e.db), f, e.logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d users, %d workers, %d modules, %d components, %d stoppage types\n",
			sum.Users, sum.Workers, sum.Modules, sum.Components, sum.StoppageTypes)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed YAML file (default: built-in starter data)")
}
