package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/state"
	"emberday/internal/ui"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage today's to-do instances",
	}
	cmd.AddCommand(newTaskListCmd(), newTaskRmCmd())
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List to-dos (today by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			shown := 0
			for _, t := range s.TaskInstances {
				if !all && t.Day != s.Today.Day {
					continue
				}
				shown++
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", mark(t.Done), t.Title, ui.Muted.Render(fmt.Sprintf("(%s, %s, %d pts)", t.ID, t.Day, t.Points)))
			}
			if shown == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No to-dos."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include past days")
	return cmd
}

func newTaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a to-do instance (its ledger history stays)",
		Args:  requireID("task id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return eng.Store().Dispatch(state.TaskInstanceDelete{ID: args[0]})
		},
	}
}
