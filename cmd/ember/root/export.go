package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/storage"
	"emberday/internal/ui"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the full state (use a .zst suffix for compression)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("output path is required")
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

			if err := storage.Export(args[0], eng.Store().State()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconScroll, "Exported to "+args[0]))
			return nil
		},
	}
	return cmd
}
