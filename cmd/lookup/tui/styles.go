package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorAccent    = "86"
	colorHighlight = "205"
	colorDanger    = "196"
	colorMuted     = "241"
	colorText      = "252"
	colorSkeleton  = "238"
)

var styles = struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Pane     lipgloss.Style
	Focused  lipgloss.Style
	Card     lipgloss.Style
	Skeleton lipgloss.Style
	CardName lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Empty    lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent)),
	Heading: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorHighlight)).
		MarginBottom(1),
	Pane: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorMuted)).
		Padding(0, 1),
	Focused: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorHighlight)).
		Padding(0, 1),
	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorAccent)).
		Padding(0, 1).
		Width(cardWidth),
	Skeleton: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorSkeleton)).
		Foreground(lipgloss.Color(colorSkeleton)).
		Padding(0, 1).
		Width(cardWidth),
	CardName: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorDanger)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted)).
		Italic(true),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorHighlight)).
		Bold(true),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorAccent)),
}

// cardWidth is the inner width of a result card.
const cardWidth = 24

func newListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.ShowDescription = false
	d.Styles.SelectedTitle = styles.Selected
	d.Styles.SelectedDesc = styles.Selected
	d.Styles.NormalTitle = styles.Muted
	d.Styles.NormalDesc = styles.Muted
	return d
}
