package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emberday/internal/ui"
)

func newCoinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coins",
		Short: "Show coin balance and recent coin activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := eng.Store().State()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconCoin, "Coins"))
			fmt.Fprintln(out, ui.LabelValue("Balance", ui.Coins(s.Profile.Coins)))
			fmt.Fprintln(out, ui.LabelValue("Toward next", fmt.Sprintf("%d/%d pts", s.Today.CoinsUnminted, s.Settings.PointsPerCoin)))
			fmt.Fprintln(out, "")

			const recent = 10
			shown := 0
			for i := len(s.Ledger) - 1; i >= 0 && shown < recent; i-- {
				e := s.Ledger[i]
				if e.CoinsDelta == 0 {
					continue
				}
				shown++
				when := time.UnixMilli(e.Timestamp).Format("Jan 2 15:04")
				if e.CoinsDelta > 0 {
					fmt.Fprintf(out, "- %s +%d %s\n", when, e.CoinsDelta, ui.Muted.Render(e.SubjectLabel))
				} else {
					fmt.Fprintf(out, "- %s %s %s\n", when, ui.Warn.Render(fmt.Sprintf("%d", e.CoinsDelta)), ui.Muted.Render(e.SubjectLabel))
				}
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No coin activity yet."))
			}
			return nil
		},
	}
	return cmd
}

func newSpendCmd() *cobra.Command {
	var coins int

	cmd := &cobra.Command{
		Use:   "spend <label>",
		Short: "Spend coins on a real-world reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("label is required")
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

			if err := eng.SpendCoins(args[0], coins); err != nil {
				return err
			}
			s := eng.Store().State()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Spent %d on %q. Balance: %s\n", ui.IconCoin, coins, args[0], ui.Coins(s.Profile.Coins))
			return nil
		},
	}

	cmd.Flags().IntVarP(&coins, "coins", "c", 1, "Coins to spend")
	return cmd
}
