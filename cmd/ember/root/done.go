package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/engine"
	"emberday/internal/ui"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Complete a to-do",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("task id is required")
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

			res, err := eng.CompleteTask(args[0])
			if err != nil {
				return err
			}
			printAward(cmd, res)
			return nil
		},
	}
	return cmd
}

func printAward(cmd *cobra.Command, res *engine.AwardResult) {
	if res == nil {
		return
	}
	line := fmt.Sprintf("%s +%d pts", ui.IconDone, res.Points)
	if res.PowerHour {
		line += " " + ui.IconBolt
	}
	if res.CoinsMinted > 0 {
		line += fmt.Sprintf("  %s minted", ui.Coins(res.CoinsMinted))
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(line))
}

func printUndo(cmd *cobra.Command, res *engine.UndoResult) {
	if res == nil {
		return
	}
	line := fmt.Sprintf("%s %d pts reverted", ui.IconUndo, res.Points)
	if res.CoinsReclaimed > 0 {
		line += fmt.Sprintf(", %d coin(s) reclaimed", res.CoinsReclaimed)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(line))
}
