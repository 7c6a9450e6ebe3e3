package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	MarkDone key.Binding
	Delete   key.Binding
	Search   key.Binding
	ShowAll  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		MarkDone: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "mark done")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ShowAll:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show all")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.MarkDone, k.Delete, k.Search, k.ShowAll}
}
