package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the controls of the palette screen
type keyMap struct {
	Generate   key.Binding
	Lock       key.Binding
	LockCursor key.Binding
	Left       key.Binding
	Right      key.Binding
	LockAll    key.Binding
	UnlockAll  key.Binding
	ExportCSS  key.Binding
	ExportJSON key.Binding
	ExportPNG  key.Binding
	Copy       key.Binding
	Hide       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Generate: key.NewBinding(
			key.WithKeys(" ", "g"),
			key.WithHelp("space", "generate"),
		),
		Lock: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "lock"),
		),
		LockCursor: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "lock selected"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→", "select"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		LockAll: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lock all"),
		),
		UnlockAll: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "unlock all"),
		),
		ExportCSS: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "css"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "json"),
		),
		ExportPNG: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "image"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
			key.WithDisabled(),
		),
		Hide: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide code"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Generate, k.Lock, k.Left, k.LockAll, k.UnlockAll,
		k.ExportCSS, k.ExportJSON, k.ExportPNG, k.Copy, k.Hide, k.Quit,
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
