package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/state"
	"emberday/internal/ui"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage daily habits",
	}
	cmd.AddCommand(newHabitAddCmd(), newHabitListCmd(), newHabitRmCmd(), newHabitToggleCmd())
	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var points int
	var target int
	var days string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a habit (use --target for counter habits)",
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
			h := state.Habit{
				ID:               state.NewID("hb"),
				Title:            args[0],
				Kind:             state.HabitBinary,
				PointsOnComplete: points,
				ByWeekday:        byWeekday,
				Active:           true,
			}
			if target > 0 {
				h.Kind = state.HabitCounter
				h.TargetPerDay = target
			}
			if err := eng.Store().Dispatch(state.HabitAdd{Habit: h}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconPlus, fmt.Sprintf("Habit %q added (%s)", h.Title, h.ID)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 10, "Points on completion")
	cmd.Flags().IntVarP(&target, "target", "t", 0, "Daily count target (makes it a counter habit)")
	cmd.Flags().StringVar(&days, "days", "", "Scheduled weekdays, e.g. mon,wed,fri (default: every day)")
	return cmd
}

func newHabitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			if len(s.Habits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No habits yet. Try: ember habit add \"Stretch\""))
				return nil
			}
			for _, h := range s.Habits {
				kind := "binary"
				if h.Kind == state.HabitCounter {
					kind = fmt.Sprintf("counter x%d", h.TargetPerDay)
				}
				status := ui.Good.Render("active")
				if !h.Active {
					status = ui.Muted.Render("archived")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", h.Title, ui.Muted.Render(fmt.Sprintf("(%s, %s, %d pts)", h.ID, kind, h.PointsOnComplete)), status)
			}
			return nil
		},
	}
}

func newHabitRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <habit-id>",
		Short: "Delete a habit (its ledger history stays)",
		Args:  requireID("habit id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := eng.Store().Dispatch(state.HabitDelete{ID: args[0]}); err != nil {
				return err
			}
			return eng.Rebuild()
		},
	}
}

func newHabitToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <habit-id>",
		Short: "Archive or reactivate a habit",
		Args:  requireID("habit id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := eng.Store().Dispatch(state.HabitToggleActive{ID: args[0]}); err != nil {
				return err
			}
			return eng.Rebuild()
		},
	}
}

func requireID(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New(what + " is required")
		}
		return nil
	}
}
