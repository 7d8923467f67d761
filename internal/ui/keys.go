package ui

import "github.com/charmbracelet/bubbles/key"

// browseKeys are active while navigating days and entries.
type browseKeys struct {
	Up, Down      key.Binding
	Prev, Next    key.Binding
	Today, Reload key.Binding
	Open, Copy    key.Binding
	Add, Edit     key.Binding
	Meta, Delete  key.Binding
	Help, Quit    key.Binding
}

func newBrowseKeys() browseKeys {
	return browseKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "prev day")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next day")),
		Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Open:   key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "open")),
		Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy text")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "write")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Meta:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "time & tags")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Open, k.Add, k.Help, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next, k.Today, k.Reload},
		{k.Open, k.Copy, k.Add, k.Edit, k.Meta, k.Delete},
		{k.Help, k.Quit},
	}
}

// composeKeys drive the entry editor.
type composeKeys struct {
	Bold, Italic      key.Binding
	Header, Bullet    key.Binding
	Stamp, Range      key.Binding
	SelLeft, SelRight key.Binding
	Save, Cancel      key.Binding
}

func newComposeKeys() composeKeys {
	return composeKeys{
		Bold:     key.NewBinding(key.WithKeys("alt+b", "ctrl+b"), key.WithHelp("alt+b", "bold")),
		Italic:   key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")),
		Header:   key.NewBinding(key.WithKeys("alt+h"), key.WithHelp("alt+h", "header")),
		Bullet:   key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("alt+l", "bullet")),
		Stamp:    key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "timestamp")),
		Range:    key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "start/stop range")),
		SelLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select")),
		SelRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k composeKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Bold, k.Italic, k.Header, k.Bullet, k.Stamp, k.Range, k.Save, k.Cancel}
}

func (k composeKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bold, k.Italic, k.Header, k.Bullet},
		{k.Stamp, k.Range, k.SelLeft, k.SelRight},
		{k.Save, k.Cancel},
	}
}
