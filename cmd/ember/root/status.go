package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emberday/internal/engine"
	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's board: points, streak, coins and open items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			today := s.Today.Day
			out := cmd.OutOrStdout()
			points := s.Progress[today].Points

			fmt.Fprintln(out, ui.Heading(ui.IconFlame, "Emberday — "+today))
			fmt.Fprintf(out, "%s %d/%d %s\n", ui.Key.Render("Points:"), points, s.Settings.DailyGoal, ui.ProgressBar(points, s.Settings.DailyGoal, 24))
			fmt.Fprintln(out, ui.LabelValue("Streak", ui.Streak(s.Streak.Current)+ui.Muted.Render(fmt.Sprintf(" (best %d)", s.Profile.BestStreak))))
			fmt.Fprintln(out, ui.LabelValue("Coins", ui.Coins(s.Profile.Coins)+ui.Muted.Render(fmt.Sprintf(" (+%d/%d toward next)", s.Today.CoinsUnminted, s.Settings.PointsPerCoin))))
			if eng.PowerHourActive() {
				fmt.Fprintf(out, "%s %s until %s\n", ui.IconBolt, ui.BadgePowerHour, eng.PowerHourEndsAt().Format("15:04"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📋 To-dos"))
			anyTask := false
			for _, t := range s.TaskInstances {
				if t.Day != today {
					continue
				}
				anyTask = true
				fmt.Fprintf(out, "- %s %s %s\n", mark(t.Done), t.Title, ui.Muted.Render(fmt.Sprintf("(%s, %d pts)", t.ID, t.Points)))
			}
			if !anyTask {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconLoop+" Habits"))
			anyHabit := false
			for _, h := range s.Habits {
				if !h.Active {
					continue
				}
				anyHabit = true
				st := s.Today.HabitsStatus[h.ID]
				if h.Kind == state.HabitCounter {
					fmt.Fprintf(out, "- %s %s %d/%d %s\n", mark(st.Done), h.Title, st.Tally, h.TargetPerDay, ui.Muted.Render(fmt.Sprintf("(%s, %d pts)", h.ID, h.PointsOnComplete)))
				} else {
					fmt.Fprintf(out, "- %s %s %s\n", mark(st.Done), h.Title, ui.Muted.Render(fmt.Sprintf("(%s, %d pts)", h.ID, h.PointsOnComplete)))
				}
			}
			if !anyHabit {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconSparkle+" Daily challenges"))
			if a, ok := s.DailyAssignments[today]; ok && len(a.ChallengeIDs) > 0 {
				for _, id := range a.ChallengeIDs {
					snap := a.Snapshot[id]
					fmt.Fprintf(out, "- %s %s %s\n", mark(eng.ChallengeDone(id)), snap.Title, ui.Muted.Render(fmt.Sprintf("(%s, %d pts)", id, snap.Points)))
				}
			} else {
				fmt.Fprintln(out, ui.Muted.Render("(none today)"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconSword+" Weekly boss"))
			if b := s.WeeklyBoss; b != nil && len(b.Goals) > 0 {
				for _, g := range b.Goals {
					tally := eng.BossTally(g.ID)
					fmt.Fprintf(out, "- %s %s %d/%d %s\n", mark(tally >= g.Target), g.Label, tally, g.Target, ui.Muted.Render(fmt.Sprintf("(%s, %d pts/tick)", g.ID, engine.BossTickReward(g.PointsPerTick, b.Rerolls))))
				}
				if b.Completed {
					fmt.Fprintln(out, ui.BadgeBossDown)
				}
				if b.Rerolls > 0 {
					fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("rerolled x%d", b.Rerolls)))
				}
			} else {
				fmt.Fprintln(out, ui.Muted.Render("(no goals this week)"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("🕒 Today's activity"))
			anyEntry := false
			for _, e := range s.Ledger {
				if e.Day != today || e.Type == ledger.TypeMint {
					continue
				}
				anyEntry = true
				when := time.UnixMilli(e.Timestamp).Format("15:04")
				switch {
				case e.PointsDelta > 0:
					fmt.Fprintf(out, "- %s %s %s\n", when, e.SubjectLabel, ui.Good.Render(fmt.Sprintf("+%d pts", e.PointsDelta)))
				case e.PointsDelta < 0:
					fmt.Fprintf(out, "- %s %s %s\n", when, e.SubjectLabel, ui.Warn.Render(fmt.Sprintf("%d pts", e.PointsDelta)))
				case e.CoinsDelta < 0:
					fmt.Fprintf(out, "- %s %s %s\n", when, e.SubjectLabel, ui.Warn.Render(fmt.Sprintf("%d coin(s)", e.CoinsDelta)))
				}
			}
			if !anyEntry {
				fmt.Fprintln(out, ui.Muted.Render("(nothing yet)"))
			}
			return nil
		},
	}
	return cmd
}

func mark(done bool) string {
	if done {
		return ui.Good.Render("[x]")
	}
	return "[ ]"
}
