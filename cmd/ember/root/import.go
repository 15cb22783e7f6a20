package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emberday/internal/storage"
	"emberday/internal/timeutil"
	"emberday/internal/ui"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the current state with an exported snapshot",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("input path is required")
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

			st, err := storage.Import(args[0], timeutil.DayKey(time.Now()))
			if err != nil {
				return err
			}
			if err := eng.ImportState(st); err != nil {
				return err
			}
			s := eng.Store().State()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconScroll, fmt.Sprintf("Imported %d ledger entries, %d habits, %d library items", len(s.Ledger), len(s.Habits), len(s.Library))))
			return nil
		},
	}
	return cmd
}
