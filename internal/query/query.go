// Package query owns the canonical filter, sort and pagination state and
// turns user input into sequenced fetch triggers.
//
// Free-text search is debounced: rapid keystrokes reset a timer and only the
// value present when the timer fires produces a new filter snapshot. Every
// other change applies immediately and resets the page to 1, except explicit
// page navigation. Each emitted change carries a monotonically increasing
// sequence number; the fetch layer uses it to discard responses that were
// superseded while in flight.
package query

import (
	"sync"
	"time"

	"github.com/mpelle/stockwell/internal/catalog"
)

const (
	defaultLimit = 10
	maxLimit     = 100

	// DefaultDebounce is the search quiet period before a fetch fires.
	DefaultDebounce = 500 * time.Millisecond
)

// FilterState is an immutable snapshot of the listing controls. A new
// snapshot is produced on every change; callers never mutate one in place.
type FilterState struct {
	Search    string
	Category  string
	Status    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Default returns the initial filter state.
func Default(limit int) FilterState {
	return FilterState{
		SortBy:    "created_at",
		SortOrder: "desc",
		Page:      1,
		Limit:     clampLimit(limit),
	}
}

// Query converts the snapshot into the canonical descriptor handed to the
// catalog client.
func (f FilterState) Query() catalog.ListQuery {
	return catalog.ListQuery{
		Search:    f.Search,
		Category:  f.Category,
		Status:    f.Status,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
		Page:      f.Page,
		Limit:     f.Limit,
	}
}

// Change pairs a filter snapshot with its staleness token.
type Change struct {
	Filter FilterState
	Seq    uint64
}

// Manager coordinates filter changes and owns the search debounce timer.
// The timer is an explicitly held, cancellable handle; Close stops it so no
// fetch fires after teardown.
type Manager struct {
	mu       sync.Mutex
	filter   FilterState
	seq      uint64
	debounce time.Duration
	timer    *time.Timer
	pending  string
	armed    bool
	emit     func(Change)
	closed   bool
}

// NewManager builds a manager starting from initial. emit is invoked for
// every accepted change, either on the caller's goroutine (immediate
// changes) or on the debounce timer's goroutine (search).
func NewManager(initial FilterState, debounce time.Duration, emit func(Change)) *Manager {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if initial.Page < 1 {
		initial.Page = 1
	}
	initial.Limit = clampLimit(initial.Limit)
	return &Manager{
		filter:   initial,
		debounce: debounce,
		emit:     emit,
	}
}

// SetSearch records a keystroke and (re)arms the debounce timer. Only the
// last value typed within the quiet period takes effect.
func (m *Manager) SetSearch(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.pending = text
	m.armed = true
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.flushSearch)
}

func (m *Manager) flushSearch() {
	m.mu.Lock()
	if m.closed || !m.armed {
		m.mu.Unlock()
		return
	}
	m.armed = false
	m.filter.Search = m.pending
	m.filter.Page = 1
	change, emit := m.nextLocked()
	m.mu.Unlock()

	if emit != nil {
		emit(change)
	}
}

// SetCategory applies a category filter immediately and resets to page 1.
func (m *Manager) SetCategory(category string) {
	m.apply(func(f *FilterState) {
		f.Category = category
		f.Page = 1
	})
}

// SetStatus applies a status filter immediately and resets to page 1.
func (m *Manager) SetStatus(status string) {
	m.apply(func(f *FilterState) {
		f.Status = status
		f.Page = 1
	})
}

// SetSort applies a sort field and direction immediately and resets to
// page 1.
func (m *Manager) SetSort(field, order string) {
	m.apply(func(f *FilterState) {
		f.SortBy = field
		f.SortOrder = order
		f.Page = 1
	})
}

// SetPage navigates to a page. This is the one change that does not reset
// pagination.
func (m *Manager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	m.apply(func(f *FilterState) {
		f.Page = page
	})
}

// SetLimit changes the page size and resets to page 1.
func (m *Manager) SetLimit(limit int) {
	m.apply(func(f *FilterState) {
		f.Limit = clampLimit(limit)
		f.Page = 1
	})
}

// Refresh re-emits the current filter under a fresh sequence number. Used
// for manual reloads and after committed mutations.
func (m *Manager) Refresh() {
	m.apply(func(*FilterState) {})
}

// Current returns the present filter snapshot and the last issued sequence
// number.
func (m *Manager) Current() (FilterState, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter, m.seq
}

// Close cancels any pending debounce so no work starts after teardown.
// Changes already emitted run to completion.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.armed = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) apply(mutate func(*FilterState)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	mutate(&m.filter)
	change, emit := m.nextLocked()
	m.mu.Unlock()

	if emit != nil {
		emit(change)
	}
}

// nextLocked assigns the next sequence number and returns the change to
// emit. emit runs outside the lock; the fetch layer's sequence guard keeps
// ordering correct even if two emits interleave.
func (m *Manager) nextLocked() (Change, func(Change)) {
	m.seq++
	return Change{Filter: m.filter, Seq: m.seq}, m.emit
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
