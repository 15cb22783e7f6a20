package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Daily challenges",
	}
	cmd.AddCommand(newQuestListCmd(), newQuestDoneCmd())
	return cmd
}

func newQuestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List today's challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			a, ok := s.DailyAssignments[s.Today.Day]
			if !ok || len(a.ChallengeIDs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No challenges today."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "Daily challenges"))
			for _, id := range a.ChallengeIDs {
				snap := a.Snapshot[id]
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s\n", mark(eng.ChallengeDone(id)), snap.Title, ui.Muted.Render(fmt.Sprintf("(%s, %d pts)", id, snap.Points)))
			}
			return nil
		},
	}
}

func newQuestDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <item-id>",
		Short: "Complete one of today's challenges",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("challenge item id is required")
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

			res, err := eng.CompleteChallenge(args[0])
			if err != nil {
				return err
			}
			printAward(cmd, res)
			return nil
		},
	}
}
