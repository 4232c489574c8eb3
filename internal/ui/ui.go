// Package ui provides the Bubble Tea terminal interface for Stockwell.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/draft"
	"github.com/mpelle/stockwell/internal/fetch"
	"github.com/mpelle/stockwell/internal/mutate"
	"github.com/mpelle/stockwell/internal/notify"
	"github.com/mpelle/stockwell/internal/query"
	"github.com/mpelle/stockwell/internal/state"
	"github.com/mpelle/stockwell/internal/validate"
)

// mode is the active top-level view.
type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
	modeConfirmBulkDelete
)

// sortOrders are the sort combinations CycleSort walks through.
var sortOrders = []struct{ field, order string }{
	{"created_at", "desc"},
	{"created_at", "asc"},
	{"name", "asc"},
	{"name", "desc"},
	{"price", "asc"},
	{"price", "desc"},
	{"stock", "asc"},
	{"views", "desc"},
}

// statusFilters are the status filter values CycleStatus walks through.
var statusFilters = []string{"", "active", "inactive"}

const toastVisible = 4 * time.Second

// Options configures the UI.
type Options struct {
	Context     context.Context
	Store       *state.Store
	Fetcher     *fetch.Fetcher
	Coordinator *mutate.Coordinator
	Queries     *query.Manager
	Drafts      *draft.Store
	Validator   *validate.Engine
	Relay       *Relay

	Autosave   time.Duration
	SavedDecay time.Duration
	Log        zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Engine
	ctx       context.Context
	store     *state.Store
	fetcher   *fetch.Fetcher
	coord     *mutate.Coordinator
	queries   *query.Manager
	drafts    *draft.Store
	validator *validate.Engine
	relay     *Relay
	log       zerolog.Logger

	autosave   time.Duration
	savedDecay time.Duration

	// UI state
	keys     keyMap
	styles   Styles
	help     help.Model
	table    table.Model
	mode     mode
	showHelp bool
	width    int
	height   int
	ready    bool

	// Data state
	snapshot state.Snapshot

	// Search bar
	searchInput textinput.Model
	searching   bool

	// Form state
	form *formState

	// Confirm state
	confirmID string

	// Toast state
	toast    *notify.Event
	toastGen int
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	search := textinput.New()
	search.Placeholder = "Search products"
	search.CharLimit = 120

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		fetcher:     opts.Fetcher,
		coord:       opts.Coordinator,
		queries:     opts.Queries,
		drafts:      opts.Drafts,
		validator:   opts.Validator,
		relay:       opts.Relay,
		log:         opts.Log,
		autosave:    opts.Autosave,
		savedDecay:  opts.SavedDecay,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		help:        help.New(),
		table:       newProductTable(),
		searchInput: search,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		func() tea.Msg {
			// Kick off the initial load through the normal change path.
			m.queries.Refresh()
			return nil
		},
	)
}

// Messages

type queryChangedMsg struct{ change query.Change }

type snapshotMsg state.Snapshot

type toastMsg struct{ event notify.Event }

type toastClearMsg struct{ gen int }

type repaintMsg struct{}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(productColumns(msg.Width))
		h := msg.Height - 5
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case queryChangedMsg:
		return m, m.fetchCmd(msg.change)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case toastMsg:
		m.toast = &msg.event
		m.toastGen++
		gen := m.toastGen
		m.applySnapshot(m.store.Snapshot())
		return m, tea.Tick(toastVisible, func(time.Time) tea.Msg {
			return toastClearMsg{gen: gen}
		})

	case toastClearMsg:
		if msg.gen == m.toastGen {
			m.toast = nil
		}
		return m, nil

	case repaintMsg:
		m.applySnapshot(m.store.Snapshot())
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		m.help.ShowAll = true
		return m.styles.Logo.Render("stockwell") + "\n\n" + m.help.View(m.keys)
	}

	switch m.mode {
	case modeForm:
		return m.renderForm()
	case modeConfirmDelete:
		return m.renderConfirm("Delete this product?")
	case modeConfirmBulkDelete:
		return m.renderConfirm("Delete all selected products?")
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.searching {
		b.WriteString("/" + m.searchInput.View())
	} else {
		b.WriteString(m.styles.Muted.Render("press / to search"))
	}
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderConfirm(question string) string {
	return m.renderList() + "\n" + m.styles.Modal.Render(
		question+"\n\n"+
			m.styles.Danger.Render("y")+" confirm   "+
			m.styles.Header.Render("n")+" cancel",
	)
}

// applySnapshot installs a fresh store snapshot and keeps the cursor on a
// valid row.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.table.SetRows(rowsFromSnapshot(snap))
	if c := m.table.Cursor(); c >= len(snap.Products) && len(snap.Products) > 0 {
		m.table.SetCursor(len(snap.Products) - 1)
	}
}

// handleKey routes keyboard input by view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete, modeConfirmBulkDelete:
		return m.handleConfirmKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.queries.SetSearch(m.searchInput.Value())
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bulk := m.mode == modeConfirmBulkDelete
	switch msg.String() {
	case "y", "enter":
		m.mode = modeList
		if bulk {
			ids := m.store.SelectedIDs()
			return m, m.mutationCmd(func() error {
				return m.coord.Bulk(m.ctx, catalog.BulkDelete, ids)
			})
		}
		id := m.confirmID
		m.confirmID = ""
		return m, m.mutationCmd(func() error {
			return m.coord.Delete(m.ctx, id)
		})
	case "n", "esc":
		m.mode = modeList
		m.confirmID = ""
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.queries.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		filter, _ := m.queries.Current()
		m.searchInput.SetValue(filter.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleCategory):
		m.queries.SetCategory(nextCategory(m.currentFilter().Category))
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		m.queries.SetStatus(nextStatusFilter(m.currentFilter().Status))
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		f := m.currentFilter()
		field, order := nextSort(f.SortBy, f.SortOrder)
		m.queries.SetSort(field, order)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.queries.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		p := m.snapshot.Pagination
		if p.CurrentPage < p.TotalPages {
			m.queries.SetPage(p.CurrentPage + 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if p := m.snapshot.Pagination; p.CurrentPage > 1 {
			m.queries.SetPage(p.CurrentPage - 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		mm := m
		mm.openForm("")
		return mm, nil

	case key.Matches(msg, m.keys.Edit):
		id := m.cursorID()
		if id == "" || strings.HasPrefix(id, "pending-") {
			return m, nil
		}
		mm := m
		mm.openForm(id)
		return mm, nil

	case key.Matches(msg, m.keys.Delete):
		id := m.cursorID()
		if id == "" || strings.HasPrefix(id, "pending-") {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.confirmID = id
		return m, nil

	case key.Matches(msg, m.keys.ToggleStatus):
		id := m.cursorID()
		if id == "" || strings.HasPrefix(id, "pending-") {
			return m, nil
		}
		p, _, ok := m.store.Product(id)
		if !ok {
			return m, nil
		}
		next := catalog.StatusActive
		if p.Status == catalog.StatusActive {
			next = catalog.StatusInactive
		}
		return m, m.mutationCmd(func() error {
			return m.coord.SetStatus(m.ctx, id, next)
		})

	case key.Matches(msg, m.keys.ToggleSelect):
		id := m.cursorID()
		if id == "" {
			return m, nil
		}
		if m.isSelected(id) {
			m.store.Deselect(id)
		} else {
			m.store.Select(id)
		}
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.store.ToggleSelectAll()
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.BulkActivate):
		return m.bulkCmd(catalog.BulkActivate)

	case key.Matches(msg, m.keys.BulkDeactivate):
		return m.bulkCmd(catalog.BulkDeactivate)

	case key.Matches(msg, m.keys.BulkDelete):
		if len(m.store.SelectedIDs()) == 0 {
			return m.noSelectionToast()
		}
		m.mode = modeConfirmBulkDelete
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.toast != nil && m.toast.Retry != nil {
			retry := m.toast.Retry
			m.toast = nil
			return m, func() tea.Msg {
				retry()
				return snapshotMsg(m.store.Snapshot())
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		if m.toast != nil && m.toast.Undo != nil {
			undo := m.toast.Undo
			m.toast = nil
			return m, func() tea.Msg {
				undo()
				return snapshotMsg(m.store.Snapshot())
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) bulkCmd(action catalog.BulkAction) (tea.Model, tea.Cmd) {
	ids := m.store.SelectedIDs()
	if len(ids) == 0 {
		return m.noSelectionToast()
	}
	return m, m.mutationCmd(func() error {
		return m.coord.Bulk(m.ctx, action, ids)
	})
}

func (m Model) noSelectionToast() (tea.Model, tea.Cmd) {
	m.relay.Notify(notify.Event{Level: notify.Info, Message: "No products selected"})
	return m, nil
}

// mutationCmd runs a coordinator call off the event loop and refreshes the
// view when it settles. Errors surface through the notifier, not here.
func (m Model) mutationCmd(op func() error) tea.Cmd {
	return func() tea.Msg {
		_ = op()
		return snapshotMsg(m.store.Snapshot())
	}
}

// fetchCmd runs one listing fetch for a sequenced change.
func (m Model) fetchCmd(change query.Change) tea.Cmd {
	return func() tea.Msg {
		m.fetcher.Fetch(m.ctx, change)
		return snapshotMsg(m.store.Snapshot())
	}
}

func (m Model) currentFilter() query.FilterState {
	f, _ := m.queries.Current()
	return f
}

func (m Model) cursorID() string {
	return selectedProductID(m.snapshot, m.table.Cursor())
}

func (m Model) isSelected(id string) bool {
	for _, s := range m.snapshot.Selected {
		if s == id {
			return true
		}
	}
	return false
}

func nextCategory(current string) string {
	if current == "" {
		return catalog.Categories[0]
	}
	for i, c := range catalog.Categories {
		if c == current {
			if i == len(catalog.Categories)-1 {
				return ""
			}
			return catalog.Categories[i+1]
		}
	}
	return ""
}

func nextStatusFilter(current string) string {
	for i, s := range statusFilters {
		if s == current {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return statusFilters[0]
}

func nextSort(field, order string) (string, string) {
	for i, s := range sortOrders {
		if s.field == field && s.order == order {
			next := sortOrders[(i+1)%len(sortOrders)]
			return next.field, next.order
		}
	}
	return sortOrders[0].field, sortOrders[0].order
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	opts.Relay.Bind(p.Send)
	_, err := p.Run()
	opts.Queries.Close()
	return err
}
