package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crystalos/internal/core/domain"
)

func addReset(topLevel *cobra.Command, open opener) {
	o := &UserOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear permanent habits completed before today for a user.",
		Args:  cobra.NoArgs,
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

			today := domain.DayOf(time.Now(), e.conf.Timezone)
			n, err := gateway.ResetPermanentHabits(ctx, o.UserID, today.Midnight(e.conf.Timezone))
			if err != nil {
				return err
			}
			cmd.Printf("reset %d habits for %s\n", n, today)
			return nil
		},
	}

	addUserFlag(cmd, o)
	topLevel.AddCommand(cmd)
}
