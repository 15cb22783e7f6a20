package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newTapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tap <item-id>",
		Short: "Do a library quick action (throttles apply)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("library item id is required")
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

			res, err := eng.TapLibraryItem(args[0])
			if err != nil {
				return err
			}
			printAward(cmd, res)
			return nil
		},
	}
	return cmd
}
