package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newUntickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untick <habit-id>",
		Short: "Reverse a habit tick",
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

			res, err := eng.UntickHabit(args[0])
			if err != nil {
				return err
			}
			if res == nil {
				hs := eng.Store().State().Today.HabitsStatus[args[0]]
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Tally", hs.Tally))
				return nil
			}
			printUndo(cmd, res)
			return nil
		},
	}
	return cmd
}
