package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crystalos/internal/app/store"
	"crystalos/internal/core/domain"
)

func addSeed(topLevel *cobra.Command, open opener) {
	o := &UserOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Backfill thirty days of habit logs for a user.",
		Example: `
dashctl seed --user 6f1c2f0e-8f4a-4a43-9d0e-4d2b1b7c9a11
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			gateway := e.gateway()
			if _, err := gateway.GetProfile(ctx, o.UserID); err != nil {
				return fmt.Errorf("user %s: %w", o.UserID, err)
			}

			st := store.New(gateway,
				store.WithLogger(e.logger),
				store.WithLocation(e.conf.Timezone),
			)
			st.SetSession(&domain.Session{User: domain.User{ID: o.UserID}})
			if err := st.SeedHabitData(ctx); err != nil {
				return err
			}

			state := st.State()
			cmd.Printf("seeded %d habit logs across %d habits\n", len(state.HabitLogs), len(state.Habits))
			return nil
		},
	}

	addUserFlag(cmd, o)
	topLevel.AddCommand(cmd)
}
