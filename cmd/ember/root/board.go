package root

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"emberday/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cfg, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(eng, cmd.OutOrStdout(), time.Duration(cfg.HeartbeatSeconds)*time.Second)
		},
	}
	return cmd
}
