package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newPowerHourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "powerhour",
		Short: "Spend a coin to multiply awards for the next hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cfg, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if eng.PowerHourActive() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already active until %s\n", ui.BadgePowerHour, eng.PowerHourEndsAt().Format("15:04"))
				return nil
			}
			if err := eng.StartPowerHour(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %d minutes! Awards are multiplied.\n", ui.IconBolt, ui.BadgePowerHour, cfg.PowerHourMinutes)
			return nil
		},
	}
	return cmd
}
