package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newAddCmd() *cobra.Command {
	var points int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an ad-hoc to-do for today",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			if err := eng.AddAdHocTask(args[0], points); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconPlus, fmt.Sprintf("Added %q (%d pts)", args[0], points)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 10, "Points awarded on completion")
	return cmd
}
