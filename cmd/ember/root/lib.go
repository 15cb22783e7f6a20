package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/state"
	"emberday/internal/ui"
)

func newLibCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lib",
		Short: "Manage the quick-action library (feeds challenges and bosses)",
	}
	cmd.AddCommand(newLibAddCmd(), newLibListCmd(), newLibRmCmd(), newLibToggleCmd())
	return cmd
}

func newLibAddCmd() *cobra.Command {
	var points int
	var cooldown int
	var maxPerDay int
	var days string
	var noChallenges bool
	var noBoss bool
	var pinned bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a library item",
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

			allowed, err := parseWeekdays(days)
			if err != nil {
				return err
			}
			it := state.LibraryItem{
				ID:                  state.NewID("li"),
				Title:               args[0],
				Points:              points,
				CooldownHours:       cooldown,
				MaxPerDay:           maxPerDay,
				AllowedWeekdays:     allowed,
				IncludeInChallenges: !noChallenges,
				IncludeInBoss:       !noBoss,
				Pinned:              pinned,
				Active:              true,
			}
			if err := eng.Store().Dispatch(state.LibraryAdd{Item: it}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconPlus, fmt.Sprintf("Library item %q added (%s)", it.Title, it.ID)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 10, "Points per tap")
	cmd.Flags().IntVar(&cooldown, "cooldown", 0, "Hours between taps (0 = none)")
	cmd.Flags().IntVar(&maxPerDay, "max-per-day", 0, "Daily tap cap (0 = unlimited)")
	cmd.Flags().StringVar(&days, "days", "", "Allowed weekdays, e.g. sat,sun (default: every day)")
	cmd.Flags().BoolVar(&noChallenges, "no-challenges", false, "Exclude from daily challenge generation")
	cmd.Flags().BoolVar(&noBoss, "no-boss", false, "Exclude from weekly boss generation")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "Pin to the top of lists")
	return cmd
}

func newLibListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			if len(s.Library) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Library is empty. Items here feed challenges and boss goals."))
				return nil
			}
			for _, it := range s.Library {
				var tags []string
				if it.Pinned {
					tags = append(tags, "pinned")
				}
				if it.CooldownHours > 0 {
					tags = append(tags, fmt.Sprintf("cooldown %dh", it.CooldownHours))
				}
				if it.MaxPerDay > 0 {
					tags = append(tags, fmt.Sprintf("max %d/day", it.MaxPerDay))
				}
				if !it.IncludeInChallenges {
					tags = append(tags, "no-challenges")
				}
				if !it.IncludeInBoss {
					tags = append(tags, "no-boss")
				}
				status := ui.Good.Render("active")
				if !it.Active {
					status = ui.Muted.Render("archived")
				}
				detail := fmt.Sprintf("(%s, %d pts", it.ID, it.Points)
				for _, tag := range tags {
					detail += ", " + tag
				}
				detail += ")"
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", it.Title, ui.Muted.Render(detail), status)
			}
			return nil
		},
	}
}

func newLibRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Delete a library item (its ledger history stays)",
		Args:  requireID("library item id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return eng.Store().Dispatch(state.LibraryDelete{ID: args[0]})
		},
	}
}

func newLibToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Archive or reactivate a library item",
		Args:  requireID("library item id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return eng.Store().Dispatch(state.LibraryToggleActive{ID: args[0]})
		},
	}
}
