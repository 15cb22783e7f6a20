package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newHeartbeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Run day/week rollover and content generation once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			// openEngine already runs one heartbeat.
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Day", s.Today.Day))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Week", s.WeeklyBoss.WeekStartDay))
			return nil
		},
	}
	return cmd
}
