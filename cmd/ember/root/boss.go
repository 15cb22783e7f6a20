package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/engine"
	"emberday/internal/ui"
)

func newBossCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boss",
		Short: "Weekly boss goals",
	}
	cmd.AddCommand(newBossShowCmd(), newBossTickCmd(), newBossRerollCmd())
	return cmd
}

func newBossShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show this week's boss goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			b := eng.Store().State().WeeklyBoss
			if b == nil || len(b.Goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No boss goals this week. Add library items with boss inclusion enabled."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSword, "Weekly boss — week of "+b.WeekStartDay))
			for _, g := range b.Goals {
				tally := eng.BossTally(g.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %d/%d %s\n", mark(tally >= g.Target), g.Label, tally, g.Target, ui.Muted.Render(fmt.Sprintf("(%s, %d pts/tick)", g.ID, engine.BossTickReward(g.PointsPerTick, b.Rerolls))))
			}
			if b.Completed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.BadgeBossDown)
			}
			if b.Rerolls > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("rerolled x%d (tick rewards reduced)", b.Rerolls)))
			}
			return nil
		},
	}
}

func newBossTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick <goal-id>",
		Short: "Record one tick of a boss goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("goal id is required")
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

			res, err := eng.TickBossGoal(args[0])
			if err != nil {
				return err
			}
			printAward(cmd, res)
			if b := eng.Store().State().WeeklyBoss; b != nil && b.Completed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.BadgeBossDown)
			}
			return nil
		},
	}
}

func newBossRerollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reroll",
		Short: "Reroll this week's goals (reduces tick rewards)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			b, err := eng.RerollWeeklyBoss()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconDice, fmt.Sprintf("Rerolled (x%d) — %d new goals", b.Rerolls, len(b.Goals))))
			for _, g := range b.Goals {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s 0/%d %s\n", g.Label, g.Target, ui.Muted.Render(fmt.Sprintf("(%s)", g.ID)))
			}
			return nil
		},
	}
}
