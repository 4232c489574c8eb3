package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Confirm key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Filters
	Search        key.Binding
	CycleCategory key.Binding
	CycleStatus   key.Binding
	CycleSort     key.Binding
	Refresh       key.Binding

	// Product actions
	New          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	ToggleStatus key.Binding

	// Selection and bulk actions
	ToggleSelect   key.Binding
	SelectAll      key.Binding
	BulkActivate   key.Binding
	BulkDeactivate key.Binding
	BulkDelete     key.Binding

	// Toast actions
	Retry key.Binding
	Undo  key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "Previous page"),
		),

		// Filters
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle category"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Cycle sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		// Product actions
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New product"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "Edit product"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete product"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle active/inactive"),
		),

		// Selection and bulk actions
		ToggleSelect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Select/deselect"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select/deselect page"),
		),
		BulkActivate: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Activate selected"),
		),
		BulkDeactivate: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "Deactivate selected"),
		),
		BulkDelete: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Delete selected"),
		),

		// Toast actions
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Retry last failure"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Undo last change"),
		),

		// Form
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.New, k.Search, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom, k.PrevPage, k.NextPage},
		// Filters
		{k.Search, k.CycleCategory, k.CycleStatus, k.CycleSort, k.Refresh},
		// Product actions
		{k.New, k.Edit, k.Delete, k.ToggleStatus},
		// Selection
		{k.ToggleSelect, k.SelectAll, k.BulkActivate, k.BulkDeactivate, k.BulkDelete},
		// General
		{k.Retry, k.Undo, k.Help, k.Quit},
	}
}
