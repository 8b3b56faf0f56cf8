package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Focus  key.Binding
	Select key.Binding
	Next   key.Binding
	Retry  key.Binding
	Back   key.Binding
	Quit   key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch list")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back to filter")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
	}
}

// selectorHelp lists the bindings live on the selector screen. Next and
// Retry are disabled when they would do nothing.
func (k keyMap) selectorHelp(canAdvance, failed bool) []key.Binding {
	next, retry := k.Next, k.Retry
	next.SetEnabled(canAdvance)
	retry.SetEnabled(failed)
	return []key.Binding{k.Focus, k.Select, next, retry, k.Quit}
}

func (k keyMap) resultsHelp(retryable bool) []key.Binding {
	retry := k.Retry
	retry.SetEnabled(retryable)
	return []key.Binding{k.Up, k.Down, k.Back, retry, k.Quit}
}
