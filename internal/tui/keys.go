package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start   key.Binding
	Hit     key.Binding
	Menu    key.Binding
	Restart key.Binding
	Dur15   key.Binding
	Dur30   key.Binding
	Dur60   key.Binding
	Dark    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Hit:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("click/space", "hit")),
		Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Dur15:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "15s")),
		Dur30:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "30s")),
		Dur60:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "60s")),
		Dark:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark mode")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Hit, k.Menu, k.Restart, k.Dur15, k.Dur30, k.Dur60, k.Dark, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// sync enables only the bindings that do something in the current state.
func (k *keyMap) sync(running, menuOpen bool) {
	k.Start.SetEnabled(!running && !menuOpen)
	k.Hit.SetEnabled(running && !menuOpen)
	for _, b := range []*key.Binding{&k.Restart, &k.Dur15, &k.Dur30, &k.Dur60, &k.Dark, &k.Close} {
		b.SetEnabled(menuOpen)
	}
}
