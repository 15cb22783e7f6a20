package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"emberday/internal/engine"
)

type engineHandle struct {
	cmd *cobra.Command
	eng *engine.Engine
}

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse today's most recent completion of an item",
	}

	sub := func(use, short string, run func(eng engineHandle, id string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args: func(cmd *cobra.Command, args []string) error {
				if len(args) != 1 {
					return errors.New("id is required")
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
				return run(engineHandle{cmd: cmd, eng: eng}, args[0])
			},
		}
	}

	cmd.AddCommand(
		sub("task <task-id>", "Undo a completed to-do", func(h engineHandle, id string) error {
			res, err := h.eng.UndoTask(id)
			if err != nil {
				return err
			}
			printUndo(h.cmd, res)
			return nil
		}),
		sub("quest <item-id>", "Undo a completed challenge", func(h engineHandle, id string) error {
			res, err := h.eng.UndoChallenge(id)
			if err != nil {
				return err
			}
			printUndo(h.cmd, res)
			return nil
		}),
		sub("boss <goal-id>", "Undo a boss goal tick", func(h engineHandle, id string) error {
			res, err := h.eng.UntickBossGoal(id)
			if err != nil {
				return err
			}
			printUndo(h.cmd, res)
			return nil
		}),
		sub("tap <item-id>", "Undo a library quick action", func(h engineHandle, id string) error {
			res, err := h.eng.UndoLibraryTap(id)
			if err != nil {
				return err
			}
			printUndo(h.cmd, res)
			return nil
		}),
	)
	return cmd
}
