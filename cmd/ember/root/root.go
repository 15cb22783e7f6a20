package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "ember",
	Short:         "Emberday — local-first gamified day planner",
	Long:          "Emberday turns daily tasks, habits and weekly bosses into points, coins and streaks, all derived from a local append-only ledger.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newStatusCmd(),
		newAddCmd(),
		newTaskCmd(),
		newDoneCmd(),
		newCoinsCmd(),
		newSpendCmd(),
		newTickCmd(),
		newUntickCmd(),
		newTapCmd(),
		newQuestCmd(),
		newBossCmd(),
		newUndoCmd(),
		newPowerHourCmd(),
		newHabitCmd(),
		newRuleCmd(),
		newLibCmd(),
		newSettingsCmd(),
		newExportCmd(),
		newImportCmd(),
		newHeartbeatCmd(),
		newResetCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
