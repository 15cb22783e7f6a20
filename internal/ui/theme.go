package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Emberday theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconFlame   = "🔥"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconCoin    = "🪙"
	IconBolt    = "⚡"
	IconSword   = "⚔️"
	IconDice    = "🎲"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconScroll  = "📜"
	IconUndo    = "↩️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgePowerHour = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("POWER HOUR")
	BadgeBossDown  = lipgloss.NewStyle().Bold(true).Foreground(cGood).Render("BOSS DOWN")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders a fixed-width bar for points toward the daily goal.
// Overflow past the goal stays full rather than wrapping.
func ProgressBar(current, goal, width int) string {
	if width < 4 {
		width = 4
	}
	if goal < 1 {
		goal = 1
	}
	filled := current * width / goal
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := H2
	if current >= goal {
		style = Good
	}
	return style.Render(bar)
}

// Streak renders the streak count with heat scaling with length.
func Streak(days int) string {
	switch {
	case days <= 0:
		return Muted.Render("no streak")
	case days < 7:
		return fmt.Sprintf("%s %d", IconFlame, days)
	default:
		return Gold.Render(fmt.Sprintf("%s %d", IconFlame, days))
	}
}

// Coins renders a coin balance.
func Coins(n int) string {
	return fmt.Sprintf("%s %s", IconCoin, Gold.Render(fmt.Sprintf("%d", n)))
}
