package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"emberday/internal/engine"
	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/ui"
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowTask
	rowHabit
	rowChallenge
	rowBoss
)

// row is one selectable (or header) line on the board.
type row struct {
	kind   rowKind
	id     string
	label  string
	done   bool
	detail string
}

type boardModel struct {
	eng *engine.Engine

	width  int
	height int

	rows     []row
	selected int

	heartbeatEvery time.Duration
	lastLog        string
	err            error
}

type heartbeatMsg struct{ at time.Time }

func newBoardModel(eng *engine.Engine, heartbeatEvery time.Duration) boardModel {
	m := boardModel{
		eng:            eng,
		heartbeatEvery: heartbeatEvery,
		lastLog:        "Loaded.",
	}
	m.rebuildRows()
	return m
}

func (m boardModel) Init() tea.Cmd {
	return m.heartbeatCmd()
}

func (m boardModel) heartbeatCmd() tea.Cmd {
	return tea.Tick(m.heartbeatEvery, func(t time.Time) tea.Msg {
		return heartbeatMsg{at: t}
	})
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case heartbeatMsg:
		if err := m.eng.Heartbeat(); err != nil {
			m.lastLog = "Heartbeat failed: " + err.Error()
		}
		m.rebuildRows()
		return m, m.heartbeatCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			if err := m.eng.Heartbeat(); err != nil {
				m.lastLog = "Refresh failed: " + err.Error()
			} else {
				m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			}
			m.rebuildRows()
			return m, nil
		case "up", "k":
			m.moveSelection(-1)
			return m, nil
		case "down", "j":
			m.moveSelection(1)
			return m, nil
		case "c", " ", "enter":
			m.completeSelected()
			m.rebuildRows()
			return m, nil
		case "u":
			m.undoSelected()
			m.rebuildRows()
			return m, nil
		case "p":
			if err := m.eng.StartPowerHour(); err != nil {
				m.lastLog = "Power hour: " + err.Error()
			} else {
				m.lastLog = ui.BadgePowerHour + " started!"
			}
			m.rebuildRows()
			return m, nil
		}
	}
	return m, nil
}

func (m *boardModel) moveSelection(dir int) {
	i := m.selected
	for {
		i += dir
		if i < 0 || i >= len(m.rows) {
			return
		}
		if m.rows[i].kind != rowHeader {
			m.selected = i
			return
		}
	}
}

func (m *boardModel) completeSelected() {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return
	}
	r := m.rows[m.selected]
	var err error
	var res *engine.AwardResult
	switch r.kind {
	case rowTask:
		res, err = m.eng.CompleteTask(r.id)
	case rowHabit:
		res, err = m.eng.TickHabit(r.id)
	case rowChallenge:
		res, err = m.eng.CompleteChallenge(r.id)
	case rowBoss:
		res, err = m.eng.TickBossGoal(r.id)
	default:
		return
	}
	if err != nil {
		m.lastLog = friendlyError(err)
		return
	}
	if res == nil {
		m.lastLog = fmt.Sprintf("%s ticked.", r.label)
		return
	}
	m.lastLog = fmt.Sprintf("%s +%d pts", r.label, res.Points)
	if res.CoinsMinted > 0 {
		m.lastLog += fmt.Sprintf(", minted %s", ui.Coins(res.CoinsMinted))
	}
	if res.PowerHour {
		m.lastLog += " " + ui.IconBolt
	}
}

func (m *boardModel) undoSelected() {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return
	}
	r := m.rows[m.selected]
	var err error
	var res *engine.UndoResult
	switch r.kind {
	case rowTask:
		res, err = m.eng.UndoTask(r.id)
	case rowHabit:
		res, err = m.eng.UntickHabit(r.id)
	case rowChallenge:
		res, err = m.eng.UndoChallenge(r.id)
	case rowBoss:
		res, err = m.eng.UntickBossGoal(r.id)
	default:
		return
	}
	if err != nil {
		m.lastLog = friendlyError(err)
		return
	}
	if res == nil {
		m.lastLog = fmt.Sprintf("%s unticked.", r.label)
		return
	}
	m.lastLog = fmt.Sprintf("%s %s %d pts back", r.label, ui.IconUndo, res.Points)
	if res.CoinsReclaimed > 0 {
		m.lastLog += fmt.Sprintf(", reclaimed %d coin(s)", res.CoinsReclaimed)
	}
}

func friendlyError(err error) string {
	var terr engine.ThrottleError
	if errors.As(err, &terr) {
		return terr.Error()
	}
	var rerr engine.ReclaimError
	if errors.As(err, &rerr) {
		return "Cannot undo: " + rerr.Error()
	}
	return err.Error()
}

// rebuildRows projects the current snapshot into display rows. Selection
// is clamped instead of reset so repeated actions stay on nearby rows.
func (m *boardModel) rebuildRows() {
	s := m.eng.Store().State()
	today := s.Today.Day

	var rows []row

	rows = append(rows, row{kind: rowHeader, label: "To-dos"})
	for _, t := range s.TaskInstances {
		if t.Day != today {
			continue
		}
		rows = append(rows, row{
			kind: rowTask, id: t.ID, label: t.Title, done: t.Done,
			detail: fmt.Sprintf("%d pts", t.Points),
		})
	}

	rows = append(rows, row{kind: rowHeader, label: "Habits"})
	for _, h := range s.Habits {
		if !h.Active {
			continue
		}
		st := s.Today.HabitsStatus[h.ID]
		detail := fmt.Sprintf("%d pts", h.PointsOnComplete)
		if h.Kind == state.HabitCounter {
			detail = fmt.Sprintf("%d/%d, %d pts", st.Tally, h.TargetPerDay, h.PointsOnComplete)
		}
		rows = append(rows, row{
			kind: rowHabit, id: h.ID, label: h.Title, done: st.Done, detail: detail,
		})
	}

	rows = append(rows, row{kind: rowHeader, label: "Challenges"})
	if a, ok := s.DailyAssignments[today]; ok {
		for _, id := range a.ChallengeIDs {
			snap := a.Snapshot[id]
			rows = append(rows, row{
				kind: rowChallenge, id: id, label: snap.Title,
				done:   m.eng.ChallengeDone(id),
				detail: fmt.Sprintf("%d pts", snap.Points),
			})
		}
	}

	rows = append(rows, row{kind: rowHeader, label: "Weekly Boss"})
	if b := s.WeeklyBoss; b != nil {
		for _, g := range b.Goals {
			tally := m.eng.BossTally(g.ID)
			rows = append(rows, row{
				kind: rowBoss, id: g.ID, label: g.Label,
				done:   tally >= g.Target,
				detail: fmt.Sprintf("%d/%d, %d pts/tick", tally, g.Target, engine.BossTickReward(g.PointsPerTick, b.Rerolls)),
			})
		}
	}

	m.rows = rows
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < len(m.rows) && m.selected >= 0 && m.rows[m.selected].kind == rowHeader {
		m.moveSelection(1)
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := "\n" + m.lastLog

	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	s := m.eng.Store().State()
	today := s.Today.Day
	points := s.Progress[today].Points
	bar := ui.ProgressBar(points, s.Settings.DailyGoal, 24)
	head := fmt.Sprintf("Emberday | %s | %d/%d pts %s | %s | %s",
		today, points, s.Settings.DailyGoal, bar,
		ui.Streak(s.Streak.Current), ui.Coins(s.Profile.Coins))
	if m.eng.PowerHourActive() {
		head += " | " + ui.BadgePowerHour
	}
	return head
}

func (m boardModel) renderSidebar() string {
	s := m.eng.Store().State()
	lines := []string{"Week"}
	if b := s.WeeklyBoss; b != nil {
		done := 0
		for _, g := range b.Goals {
			if m.eng.BossTally(g.ID) >= g.Target {
				done++
			}
		}
		lines = append(lines, fmt.Sprintf("- boss %d/%d goals", done, len(b.Goals)))
		if b.Completed {
			lines = append(lines, "- "+ui.BadgeBossDown)
		}
		if b.Rerolls > 0 {
			lines = append(lines, fmt.Sprintf("- rerolled x%d", b.Rerolls))
		}
	}
	lines = append(lines, fmt.Sprintf("- best streak %d", s.Profile.BestStreak))
	lines = append(lines, "")
	lines = append(lines, "Today")
	feed := 0
	for i := len(s.Ledger) - 1; i >= 0 && feed < 5; i-- {
		e := s.Ledger[i]
		if e.Day != s.Today.Day || e.Type == ledger.TypeMint || e.PointsDelta <= 0 {
			continue
		}
		feed++
		lines = append(lines, fmt.Sprintf("- %s +%d", e.SubjectLabel, e.PointsDelta))
	}
	if feed == 0 {
		lines = append(lines, "- (nothing yet)")
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- u: undo")
	lines = append(lines, "- p: power hour")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	var out []string
	for i, r := range m.rows {
		if r.kind == rowHeader {
			if i > 0 {
				out = append(out, "")
			}
			out = append(out, r.label)
			continue
		}
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := "[ ]"
		if r.done {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, mark, r.label)
		if r.detail != "" {
			line += " (" + r.detail + ")"
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return "(empty)"
	}
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
