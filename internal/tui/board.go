package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"emberday/internal/engine"
)

func RunBoard(eng *engine.Engine, out io.Writer, heartbeatEvery time.Duration) error {
	m := newBoardModel(eng, heartbeatEvery)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
