package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.screen == screenResults {
		return m.viewResults()
	}
	return m.viewSelector()
}

func (m *Model) viewSelector() string {
	var b strings.Builder
	b.WriteString(styles.Heading.Render("Vehicle Filter") + "\n")

	makesPane, yearsPane := styles.Pane, styles.Pane
	if m.focus == focusMakes {
		makesPane = styles.Focused
	} else {
		yearsPane = styles.Focused
	}

	var left string
	switch {
	case m.sel.Loading():
		left = m.spinner.View() + " Loading makes..."
	case m.sel.Failed():
		left = styles.Error.Render("Could not load makes.") + "\n" + styles.Muted.Render("press r to retry")
	default:
		left = m.makes.View()
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		makesPane.Render(left),
		yearsPane.Render(m.years.View()),
	) + "\n")

	b.WriteString(m.selectionLine() + "\n")
	b.WriteString(m.help.ShortHelpView(m.keys.selectorHelp(m.sel.CanAdvance(), m.sel.Failed())))
	return b.String()
}

func (m *Model) selectionLine() string {
	mk := styles.Muted.Render("none")
	if chosen, ok := m.sel.SelectedMake(); ok {
		mk = styles.Selected.Render(chosen.Name)
	}
	yr := styles.Muted.Render("none")
	if m.sel.Year != "" {
		yr = styles.Selected.Render(m.sel.Year)
	}
	next := styles.Muted.Render("[Next]")
	if m.sel.CanAdvance() {
		next = styles.Status.Render("[Next]")
	}
	return fmt.Sprintf("Make: %s  Year: %s  %s", mk, yr, next)
}

func (m *Model) viewResults() string {
	var b strings.Builder
	title := "Vehicle Models"
	if m.res.Ready() {
		title = fmt.Sprintf("Vehicle Models in %d", m.res.Year)
	}
	b.WriteString(styles.Muted.Render("← Back to Filter (esc)") + "\n")
	b.WriteString(styles.Heading.Render(title))
	if m.res.Loading() {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(m.help.ShortHelpView(m.keys.resultsHelp(m.res.Retryable())))
	return b.String()
}

// renderCards lays out the results view body for a terminal of the given
// width.
func renderCards(res wizard.Results, width int) string {
	switch {
	case res.Waiting():
		return styles.Empty.Render("Choose a make and a model year to see its models.")
	case res.Failed() && !res.Ready():
		return styles.Error.Render("That make or model year is not valid.")
	case res.Failed():
		return styles.Error.Render("Could not load models.") + "\n" + styles.Muted.Render("press r to retry")
	case res.Loading():
		cards := make([]string, wizard.SkeletonCards)
		for i := range cards {
			cards[i] = styles.Skeleton.Render("░░░░░░░░░░░░\n░░░░░░\n░░░░")
		}
		return grid(cards, width)
	case res.Empty():
		return styles.Empty.Render("No models found for this make and year.")
	}

	cards := make([]string, len(res.Models))
	for i, md := range res.Models {
		cards[i] = styles.Card.Render(
			styles.CardName.Render(md.Name) + "\n" +
				md.MakeName + "\n" +
				styles.Muted.Render(fmt.Sprintf("ID: %d", md.ID)),
		)
	}
	return grid(cards, width)
}

func grid(cards []string, width int) string {
	per := 1
	if w := lipgloss.Width(styles.Card.Render("")); w > 0 {
		per = max(width/w, 1)
	}
	rows := make([]string, 0, (len(cards)+per-1)/per)
	for i := 0; i < len(cards); i += per {
		end := min(i+per, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
