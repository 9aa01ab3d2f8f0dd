package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steadfast/idlerest/internal/migrations"
)

func NewCmdMigrate(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := global.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := migrations.Version(database)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", version)
			return nil
		},
	}
}
