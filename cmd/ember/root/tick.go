package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newTickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tick <habit-id>",
		Short: "Tick a habit (binary habits complete, counters increment)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.TickHabit(args[0])
			if err != nil {
				return err
			}
			if res == nil {
				st := eng.Store().State()
				hs := st.Today.HabitsStatus[args[0]]
				h := st.FindHabit(args[0])
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Tally", fmt.Sprintf("%d/%d", hs.Tally, h.TargetPerDay)))
				return nil
			}
			printAward(cmd, res)
			return nil
		},
	}
	return cmd
}
