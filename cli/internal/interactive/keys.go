package interactive

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Commit     key.Binding
	Edit       key.Binding
	Regenerate key.Binding
	Abort      key.Binding
	Copy       key.Binding
	Accept     key.Binding
	Cancel     key.Binding
}

var keys = keyMap{
	Commit: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "commit"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Regenerate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "regenerate"),
	),
	Abort: key.NewBinding(
		key.WithKeys("a", "ctrl+c"),
		key.WithHelp("a", "abort"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "accept"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

func (k keyMap) choices() []key.Binding {
	return []key.Binding{k.Commit, k.Edit, k.Regenerate, k.Abort, k.Copy}
}
