// Package tui is the terminal front end of the lookup wizard. The selector
// and results screens hold wizard state and render it; every fetch runs as
// a tea.Cmd scoped to the screen's Lifetime.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
	"github.com/WessleyAI/vehicle-lookup/pkg/fn"
)

type screen int

const (
	screenSelector screen = iota
	screenResults
)

type focus int

const (
	focusMakes focus = iota
	focusYears
)

// fetchDone carries a wizard completion back into Update together with the
// lifetime that started it, so completions for a screen that is gone are
// dropped.
type fetchDone struct {
	life *wizard.Lifetime
	gen  uint64
	msg  wizard.Msg
}

type makeItem struct{ domain.Make }

func (i makeItem) FilterValue() string { return i.Name }
func (i makeItem) Title() string       { return i.Name }
func (i makeItem) Description() string { return "" }

type yearItem string

func (i yearItem) FilterValue() string { return string(i) }
func (i yearItem) Title() string       { return string(i) }
func (i yearItem) Description() string { return "" }

// Model is the root Bubble Tea model.
type Model struct {
	loader *wizard.Loader
	parent context.Context
	now    func() time.Time

	screen  screen
	sel     wizard.Selector
	selLife *wizard.Lifetime
	res     wizard.Results
	resLife *wizard.Lifetime

	makes    list.Model
	years    list.Model
	focus    focus
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	width, height int
}

// Option customizes a Model.
type Option func(*Model)

// WithClock overrides the clock the year range is computed from.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New returns the wizard on its selector screen. Fetches are cancelled when
// ctx is.
func New(ctx context.Context, loader *wizard.Loader, opts ...Option) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Status

	m := &Model{
		loader:   loader,
		parent:   ctx,
		now:      time.Now,
		makes:    newList("Make"),
		years:    newList("Model year"),
		viewport: viewport.New(0, 0),
		spinner:  s,
		help:     help.New(),
		keys:     defaultKeys(),
		width:    80,
		height:   24,
	}
	m.makes.SetFilteringEnabled(true)
	for _, opt := range opts {
		opt(m)
	}
	m.mountSelector()
	m.resize()
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, newListDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = styles.Title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Init starts the selector's makes fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadMakes(), m.spinner.Tick)
}

// mountSelector replaces the selector with a fresh one. The selection is
// always empty on entry.
func (m *Model) mountSelector() {
	m.screen = screenSelector
	m.selLife = wizard.NewLifetime(m.parent)
	m.sel = wizard.NewSelector(m.now())
	m.focus = focusMakes
	m.makes.ResetFilter()
	m.makes.SetItems(nil)
	m.years.SetItems(fn.Map(m.sel.Years, func(y string) list.Item { return yearItem(y) }))
	m.years.ResetSelected()
}

func (m *Model) mountResults(sel domain.Selection) {
	m.screen = screenResults
	m.resLife = wizard.NewLifetime(m.parent)
	m.res = wizard.NewResults(sel)
	m.viewport.GotoTop()
	m.refreshCards()
}

func (m *Model) loadMakes() tea.Cmd {
	ctx, gen := m.selLife.Begin()
	m.sel = m.sel.Begin(gen)
	life, loader := m.selLife, m.loader
	return func() tea.Msg {
		return fetchDone{life: life, gen: gen, msg: loader.Makes(ctx, gen)}
	}
}

func (m *Model) loadModels() tea.Cmd {
	if !m.res.Ready() {
		return nil
	}
	ctx, gen := m.resLife.Begin()
	m.res = m.res.Begin(gen)
	m.refreshCards()
	life, loader, res := m.resLife, m.loader, m.res
	return func() tea.Msg {
		return fetchDone{life: life, gen: gen, msg: loader.Models(ctx, res, gen)}
	}
}

// advance moves to the results screen when both choices are made.
func (m *Model) advance() tea.Cmd {
	if _, ok := m.sel.Advance(); !ok {
		return nil
	}
	sel := m.sel.Selection()
	m.selLife.End()
	m.mountResults(sel)
	return tea.Batch(m.loadModels(), m.spinner.Tick)
}

func (m *Model) back() tea.Cmd {
	m.resLife.End()
	m.mountSelector()
	return tea.Batch(m.loadMakes(), m.spinner.Tick)
}

func (m *Model) quit() tea.Cmd {
	m.selLife.End()
	if m.resLife != nil {
		m.resLife.End()
	}
	return tea.Quit
}

func (m *Model) loading() bool {
	if m.screen == screenResults {
		return m.res.Loading()
	}
	return m.sel.Loading()
}

func (m *Model) resize() {
	listHeight := max(m.height-8, 5)
	paneWidth := max(m.width/2-4, 16)
	m.makes.SetSize(paneWidth, listHeight)
	m.years.SetSize(paneWidth, listHeight)
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-6, 3)
	m.help.Width = m.width
	m.refreshCards()
}

// refreshCards re-renders the results grid into the viewport.
func (m *Model) refreshCards() {
	if m.screen != screenResults {
		return
	}
	m.viewport.SetContent(renderCards(m.res, m.width))
}

// Selection returns the selector's current choice.
func (m *Model) Selection() domain.Selection { return m.sel.Selection() }

var _ tea.Model = (*Model)(nil)

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, loader *wizard.Loader, opts ...Option) error {
	p := tea.NewProgram(New(ctx, loader, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

