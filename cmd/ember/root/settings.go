package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"emberday/internal/state"
	"emberday/internal/ui"
)

func newSettingsCmd() *cobra.Command {
	var dailyGoal int
	var pointsPerCoin int
	var challenges int
	var multiplier float64
	var bossGoals int
	var bossMin int
	var bossMax int

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change engine settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			next := s.Settings
			changed := false
			if cmd.Flags().Changed("daily-goal") {
				next.DailyGoal = dailyGoal
				changed = true
			}
			if cmd.Flags().Changed("points-per-coin") {
				next.PointsPerCoin = pointsPerCoin
				changed = true
			}
			if cmd.Flags().Changed("challenges") {
				next.DailyChallengesCount = challenges
				changed = true
			}
			if cmd.Flags().Changed("multiplier") {
				next.ChallengeMultiplier = multiplier
				changed = true
			}
			if cmd.Flags().Changed("boss-goals") {
				next.BossTasksPerWeek = bossGoals
				changed = true
			}
			if cmd.Flags().Changed("boss-min") {
				next.BossTimesMin = bossMin
				changed = true
			}
			if cmd.Flags().Changed("boss-max") {
				next.BossTimesMax = bossMax
				changed = true
			}
			if changed {
				if err := eng.Store().Dispatch(state.SettingsUpdate{Settings: next}); err != nil {
					return err
				}
				if err := eng.Rebuild(); err != nil {
					return err
				}
				s = eng.Store().State()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Settings"))
			fmt.Fprintln(out, ui.LabelValue("Daily goal", s.Settings.DailyGoal))
			fmt.Fprintln(out, ui.LabelValue("Points per coin", s.Settings.PointsPerCoin))
			fmt.Fprintln(out, ui.LabelValue("Daily challenges", s.Settings.DailyChallengesCount))
			fmt.Fprintln(out, ui.LabelValue("Challenge multiplier", s.Settings.ChallengeMultiplier))
			fmt.Fprintln(out, ui.LabelValue("Boss goals per week", s.Settings.BossTasksPerWeek))
			fmt.Fprintln(out, ui.LabelValue("Boss target range", fmt.Sprintf("%d-%d", s.Settings.BossTimesMin, s.Settings.BossTimesMax)))
			return nil
		},
	}

	cmd.Flags().IntVar(&dailyGoal, "daily-goal", 0, "Points target per day")
	cmd.Flags().IntVar(&pointsPerCoin, "points-per-coin", 0, "Points needed to mint one coin")
	cmd.Flags().IntVar(&challenges, "challenges", 0, "Challenges per day (0-10)")
	cmd.Flags().Float64Var(&multiplier, "multiplier", 0, "Challenge point multiplier (1.0-2.0)")
	cmd.Flags().IntVar(&bossGoals, "boss-goals", 0, "Boss goals per week")
	cmd.Flags().IntVar(&bossMin, "boss-min", 0, "Minimum boss target per goal")
	cmd.Flags().IntVar(&bossMax, "boss-max", 0, "Maximum boss target per goal")
	return cmd
}
