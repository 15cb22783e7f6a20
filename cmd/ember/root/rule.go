package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/state"
	"emberday/internal/ui"
)

func newRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage recurring to-do rules",
	}
	cmd.AddCommand(newRuleAddCmd(), newRuleListCmd(), newRuleRmCmd(), newRuleToggleCmd())
	return cmd
}

func newRuleAddCmd() *cobra.Command {
	var points int
	var days string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a rule that spawns a to-do on scheduled days",
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

			byWeekday, err := parseWeekdays(days)
			if err != nil {
				return err
			}
			r := state.TaskRule{
				ID:        state.NewID("tr"),
				Title:     args[0],
				Points:    points,
				ByWeekday: byWeekday,
				Active:    true,
			}
			if err := eng.Store().Dispatch(state.TaskRuleAdd{Rule: r}); err != nil {
				return err
			}
			// Spawn today's instance right away if the rule applies.
			if err := eng.Heartbeat(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconPlus, fmt.Sprintf("Rule %q added (%s)", r.Title, r.ID)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 10, "Points on completion")
	cmd.Flags().StringVar(&days, "days", "", "Scheduled weekdays, e.g. mon,wed,fri (default: every day)")
	return cmd
}

func newRuleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			if len(s.TaskRules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No rules yet."))
				return nil
			}
			for _, r := range s.TaskRules {
				status := ui.Good.Render("active")
				if !r.Active {
					status = ui.Muted.Render("paused")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", r.Title, ui.Muted.Render(fmt.Sprintf("(%s, %d pts)", r.ID, r.Points)), status)
			}
			return nil
		},
	}
}

func newRuleRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <rule-id>",
		Short: "Delete a rule (already-spawned to-dos stay)",
		Args:  requireID("rule id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return eng.Store().Dispatch(state.TaskRuleDelete{ID: args[0]})
		},
	}
}

func newRuleToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <rule-id>",
		Short: "Pause or resume a rule",
		Args:  requireID("rule id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return eng.Store().Dispatch(state.TaskRuleToggleActive{ID: args[0]})
		},
	}
}
