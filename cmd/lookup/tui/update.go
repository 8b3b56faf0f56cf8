package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
	"github.com/WessleyAI/vehicle-lookup/pkg/fn"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchDone:
		return m, m.applyFetch(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (!m.filtering() || msg.String() == "ctrl+c") {
			return m, m.quit()
		}
		if m.screen == screenResults {
			return m, m.updateResults(msg)
		}
		return m, m.updateSelector(msg)
	}

	// Filter matches, cursor blinks and the like belong to the bubbles
	// components themselves.
	var cmd tea.Cmd
	if m.screen == screenResults {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.makes, cmd = m.makes.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyFetch(done fetchDone) tea.Cmd {
	if !done.life.Alive(done.gen) {
		return nil
	}
	switch done.msg.(type) {
	case wizard.MakesLoaded, wizard.MakesFailed:
		if done.life != m.selLife {
			return nil
		}
		m.sel = m.sel.Update(done.msg)
		return m.makes.SetItems(fn.Map(m.sel.Makes, func(mk domain.Make) list.Item { return makeItem{mk} }))
	case wizard.ModelsLoaded, wizard.ModelsFailed:
		if done.life != m.resLife {
			return nil
		}
		m.res = m.res.Update(done.msg)
		m.refreshCards()
	}
	return nil
}

func (m *Model) filtering() bool {
	return m.screen == screenSelector && m.makes.FilterState() == list.Filtering
}

func (m *Model) updateSelector(msg tea.KeyMsg) tea.Cmd {
	if m.filtering() {
		var cmd tea.Cmd
		m.makes, cmd = m.makes.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusMakes {
			m.focus = focusYears
		} else {
			m.focus = focusMakes
		}
		return nil
	case key.Matches(msg, m.keys.Select):
		m.selectHighlighted()
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.advance()
	case key.Matches(msg, m.keys.Retry):
		if m.sel.Failed() {
			return tea.Batch(m.loadMakes(), m.spinner.Tick)
		}
		return nil
	}

	var cmd tea.Cmd
	if m.focus == focusMakes {
		m.makes, cmd = m.makes.Update(msg)
	} else {
		m.years, cmd = m.years.Update(msg)
	}
	return cmd
}

// selectHighlighted picks the highlighted entry of the focused list. Picking
// a make moves focus on to the years.
func (m *Model) selectHighlighted() {
	if m.focus == focusMakes {
		if it, ok := m.makes.SelectedItem().(makeItem); ok {
			m.sel = m.sel.Update(wizard.SelectMake{ID: it.Key()})
			m.focus = focusYears
		}
		return
	}
	if it, ok := m.years.SelectedItem().(yearItem); ok {
		m.sel = m.sel.Update(wizard.SelectYear{Year: string(it)})
	}
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Retry):
		if m.res.Retryable() {
			return tea.Batch(m.loadModels(), m.spinner.Tick)
		}
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}
