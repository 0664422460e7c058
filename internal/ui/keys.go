package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding shown in the footer and the help pager
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	PageSize   key.Binding
	Open       key.Binding
	Toggle     key.Binding
	ToggleAll  key.Binding
	Clear      key.Binding
	Search     key.Binding
	Refresh    key.Binding
	Import     key.Binding
	Build      key.Binding
	NewBatch   key.Binding
	Cancel     key.Binding
	Retry      key.Binding
	QueueBuild key.Binding
	QueueImp   key.Binding
	Reset      key.Binding
	Logs       key.Binding
	GoTo       key.Binding
	Back       key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	NextPage:   key.NewBinding(key.WithKeys("right", "]", "pgdown"), key.WithHelp("→/]", "next page")),
	PrevPage:   key.NewBinding(key.WithKeys("left", "[", "pgup"), key.WithHelp("←/[", "prev page")),
	PageSize:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
	Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	ToggleAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
	Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Import:     key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "import selected")),
	Build:      key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "build selected")),
	NewBatch:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new batch")),
	Cancel:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel batch")),
	Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry failed")),
	QueueBuild: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "queue build")),
	QueueImp:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "queue import")),
	Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset latest build")),
	Logs:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
	GoTo:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
	Back:       key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "back")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy location")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// globalKeys are available on every screen
func globalKeys() []key.Binding {
	return []key.Binding{keys.GoTo, keys.Back, keys.Copy, keys.Help, keys.Quit}
}
