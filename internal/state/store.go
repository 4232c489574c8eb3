package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/selection"
)

// Snapshot is the point-in-time view handed to the UI. Products, pagination
// and selection always describe the same accepted state; they are never
// individually stale relative to each other.
type Snapshot struct {
	Products            []catalog.Product
	Pagination          catalog.Pagination
	Seq                 uint64
	Selected            []string
	LastError           error
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// IsOffline reports that the catalog service has been unreachable for
// multiple consecutive fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds the canonical product collection. Writes come from exactly two
// owners: the fetcher on an accepted listing response, and the mutation
// coordinator during optimistic apply and rollback. Each write happens in one
// critical section, so membership, pagination and selection never lag each
// other.
type Store struct {
	mu           sync.RWMutex
	products     []catalog.Product
	pagination   catalog.Pagination
	seq          uint64
	dispatched   uint64
	sel          *selection.Set
	applying     map[string]struct{}
	placeholders map[string]struct{}
	lastErr      error
	lastUpdated  time.Time
	failures     int
}

// NewStore returns an empty store ready for use.
func NewStore() *Store {
	return &Store{
		sel:          selection.New(),
		applying:     make(map[string]struct{}),
		placeholders: make(map[string]struct{}),
	}
}

// BeginFetch records that a fetch for seq has been dispatched. Any response
// carrying a lower sequence number is superseded from this point on, whether
// or not the newer fetch ever completes.
func (s *Store) BeginFetch(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq > s.dispatched {
		s.dispatched = seq
	}
}

// Replace installs a listing response together with its pagination metadata.
// A response whose sequence number is below the highest dispatched one is
// discarded and Replace returns false. Entries with a mutation still Applying
// keep their local optimistic copy: present entries stay as their local
// version, and entries optimistically removed stay removed. Optimistic
// placeholders survive the refresh; reconciliation is by identifier, never
// wholesale, while a mutation is in flight.
func (s *Store) Replace(products []catalog.Product, meta catalog.Pagination, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.seq || seq < s.dispatched {
		return false
	}

	incoming := cloneProducts(products)
	if len(s.applying) > 0 || len(s.placeholders) > 0 {
		local := make(map[string]catalog.Product, len(s.products))
		for _, p := range s.products {
			local[p.ID] = p
		}
		merged := make([]catalog.Product, 0, len(incoming))
		for _, p := range incoming {
			if _, busy := s.applying[p.ID]; busy {
				lp, present := local[p.ID]
				if !present {
					// The in-flight mutation is a removal; local absence
					// is authoritative until it commits or rolls back.
					continue
				}
				merged = append(merged, lp)
				continue
			}
			merged = append(merged, p)
		}
		var keep []catalog.Product
		for _, p := range s.products {
			if _, ok := s.placeholders[p.ID]; ok {
				keep = append(keep, p)
			}
		}
		incoming = append(keep, merged...)
	}

	s.products = incoming
	s.pagination = meta
	s.seq = seq
	s.sel.Retain(idsOf(incoming))
	s.lastErr = nil
	s.lastUpdated = time.Now()
	s.failures = 0
	return true
}

// RecordFetchError notes a failed fetch without touching the collection;
// stale-but-consistent beats blank. A failure from a superseded fetch is
// ignored so it cannot shadow the outcome of the current one.
func (s *Store) RecordFetchError(err error, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.dispatched {
		return
	}
	s.lastErr = err
	s.lastUpdated = time.Now()
	s.failures++
}

// Snapshot returns an independent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Products:            cloneProducts(s.products),
		Pagination:          s.pagination,
		Seq:                 s.seq,
		Selected:            s.sel.IDs(),
		LastUpdated:         s.lastUpdated,
		ConsecutiveFailures: s.failures,
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}

// Seq returns the sequence number of the last accepted listing response.
func (s *Store) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Product looks up a product and its position in the loaded page.
func (s *Store) Product(id string) (catalog.Product, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, p := range s.products {
		if p.ID == id {
			return p, i, true
		}
	}
	return catalog.Product{}, -1, false
}

// Begin marks a mutation key (a product identifier, or the create key) as
// Applying. A key already Applying yields catalog.ErrBusy; a second mutation
// is rejected, never queued.
func (s *Store) Begin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.applying[key]; busy {
		return catalog.ErrBusy
	}
	s.applying[key] = struct{}{}
	return nil
}

// BeginAll atomically marks every key, or none when any is already Applying.
func (s *Store) BeginAll(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if _, busy := s.applying[key]; busy {
			return catalog.ErrBusy
		}
	}
	for _, key := range keys {
		s.applying[key] = struct{}{}
	}
	return nil
}

// End clears the Applying mark for the given keys.
func (s *Store) End(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.applying, key)
	}
}

// Prepend puts an optimistic placeholder at the top of the collection. The
// placeholder survives concurrent refreshes until resolved or removed.
func (s *Store) Prepend(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.placeholders[p.ID] = struct{}{}
	s.products = append([]catalog.Product{p}, s.products...)
}

// Resolve swaps an entry (typically a placeholder) for the server-returned
// product, matched by the identifier the caller correlated, not by guessing.
func (s *Store) Resolve(oldID string, p catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == oldID {
			s.products[i] = p
			delete(s.placeholders, oldID)
			return true
		}
	}
	return false
}

// Set replaces a product's fields in place, returning the prior copy for the
// caller's last-known-good snapshot.
func (s *Store) Set(id string, p catalog.Product) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			prev := s.products[i]
			s.products[i] = p
			return prev, true
		}
	}
	return catalog.Product{}, false
}

// Remove drops a product from the collection and the selection in the same
// transition. It reports the removed product, its position, and whether it
// was selected, so a failed delete can restore both exactly.
func (s *Store) Remove(id string) (catalog.Product, int, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		wasSelected := s.sel.Has(id)
		s.sel.Remove(id)
		delete(s.placeholders, id)
		s.products = append(s.products[:i], s.products[i+1:]...)
		return p, i, wasSelected, true
	}
	return catalog.Product{}, -1, false, false
}

// InsertAt reinserts a product at its original position, restoring selection
// membership when it was selected before removal. A resurrected product must
// not jump to the top of the page.
func (s *Store) InsertAt(p catalog.Product, index int, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		index = 0
	}
	if index > len(s.products) {
		index = len(s.products)
	}
	s.products = append(s.products[:index], append([]catalog.Product{p}, s.products[index:]...)...)
	if selected {
		s.sel.Add(p.ID)
	}
}

// SetStatuses applies a status to every targeted product present in the
// collection, in one transition. It returns the prior status per identifier
// so a failed call can restore all of them, leaving no partial state behind.
func (s *Store) SetStatuses(ids []string, status catalog.Status) map[string]catalog.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := make(map[string]catalog.Status, len(ids))
	for _, id := range ids {
		for i := range s.products {
			if s.products[i].ID == id {
				prior[id] = s.products[i].Status
				s.products[i].Status = status
				break
			}
		}
	}
	return prior
}

// RestoreStatuses undoes an optimistic SetStatuses pass.
func (s *Store) RestoreStatuses(prior map[string]catalog.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if status, ok := prior[s.products[i].ID]; ok {
			s.products[i].Status = status
		}
	}
}

// Select marks a loaded product as selected. Identifiers not in the loaded
// page (including placeholders) are ignored, keeping the selection a subset
// of the collection.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.placeholders[id]; ok {
		return
	}
	for _, p := range s.products {
		if p.ID == id {
			s.sel.Add(id)
			return
		}
	}
}

// Deselect unmarks a product.
func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Remove(id)
}

// ToggleSelectAll selects the whole loaded page, or clears it when the page
// is already fully selected. Placeholders are skipped; they have no server
// identifier to act on.
func (s *Store) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pageIDs []string
	for _, p := range s.products {
		if _, ok := s.placeholders[p.ID]; ok {
			continue
		}
		pageIDs = append(pageIDs, p.ID)
	}
	s.sel.ToggleAll(pageIDs)
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Clear()
}

// SelectedIDs returns the selected identifiers in stable order.
func (s *Store) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.IDs()
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}

func idsOf(items []catalog.Product) []string {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}
