package cli

import (
	"github.com/spf13/cobra"

	dbadapter "crystalos/internal/adapter/db"
)

func addMigrate(topLevel *cobra.Command, open opener) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the gateway tables when missing.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			if err := dbadapter.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}
			cmd.Printf("schema applied (%s)\n", e.db.DriverName())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
