package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the panel view.
type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	CycleTheme   key.Binding
	Refresh      key.Binding
	ToggleStatus key.Binding
	ToggleLogs   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle LED colour"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Poll remote now"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Toggle status bar"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle log pane"),
		),
	}
}

// bindings lists the keys in help order.
func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Refresh, k.CycleTheme, k.ToggleStatus, k.ToggleLogs, k.Help, k.Quit}
}
