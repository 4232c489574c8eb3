package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/notify"
	"github.com/mpelle/stockwell/internal/query"
	"github.com/mpelle/stockwell/internal/state"
)

type scriptedLister struct {
	mu        sync.Mutex
	responses []func(catalog.ListQuery) (catalog.ListResponse, error)
	queries   []catalog.ListQuery
}

func (l *scriptedLister) List(_ context.Context, q catalog.ListQuery) (catalog.ListResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)
	next := l.responses[0]
	l.responses = l.responses[1:]
	return next(q)
}

func respond(ids ...string) func(catalog.ListQuery) (catalog.ListResponse, error) {
	return func(catalog.ListQuery) (catalog.ListResponse, error) {
		products := make([]catalog.Product, 0, len(ids))
		for _, id := range ids {
			products = append(products, catalog.Product{ID: id})
		}
		return catalog.ListResponse{
			Products:   products,
			Pagination: catalog.Pagination{CurrentPage: 1, TotalItems: len(ids)},
		}, nil
	}
}

func fail(err error) func(catalog.ListQuery) (catalog.ListResponse, error) {
	return func(catalog.ListQuery) (catalog.ListResponse, error) {
		return catalog.ListResponse{}, err
	}
}

type eventSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *eventSink) Notify(e notify.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *eventSink) last(t *testing.T) notify.Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		t.Fatal("no events emitted")
	}
	return s.events[len(s.events)-1]
}

func change(seq uint64, search string) query.Change {
	f := query.Default(10)
	f.Search = search
	return query.Change{Filter: f, Seq: seq}
}

func TestFetcher_LateStaleResponseIsDiscarded(t *testing.T) {
	store := state.NewStore()
	lister := &scriptedLister{responses: []func(catalog.ListQuery) (catalog.ListResponse, error){
		respond("newer"),
		respond("older"),
	}}
	f := New(lister, store, notify.Func(func(notify.Event) {}), zerolog.Nop())

	// The fetch for seq 2 completes first; the fetch for seq 1 arrives after.
	f.Fetch(context.Background(), change(2, "b"))
	f.Fetch(context.Background(), change(1, "a"))

	snap := store.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "newer" {
		t.Fatalf("products = %#v, want the seq-2 result", snap.Products)
	}
	if snap.Seq != 2 {
		t.Fatalf("seq = %d, want 2", snap.Seq)
	}
}

func TestFetcher_SupersededResponseDiscardedEvenWhenNewerFetchFails(t *testing.T) {
	store := state.NewStore()
	store.Replace([]catalog.Product{{ID: "initial"}}, catalog.Pagination{TotalItems: 1}, 1)

	sink := &eventSink{}
	lister := &scriptedLister{responses: []func(catalog.ListQuery) (catalog.ListResponse, error){
		fail(errors.New("timeout")),
		respond("superseded"),
	}}
	f := New(lister, store, sink, zerolog.Nop())

	// The fetch for seq 3 fails first; the slower fetch for seq 2 then
	// returns products for the old filter.
	f.Fetch(context.Background(), change(3, "shelf"))
	f.Fetch(context.Background(), change(2, "she"))

	snap := store.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "initial" {
		t.Fatalf("products = %#v, want the old filter's late result discarded", snap.Products)
	}
	if snap.LastError == nil {
		t.Fatal("LastError = nil, want the current fetch's failure still visible")
	}
	if ev := sink.last(t); ev.Level != notify.Error || ev.Retry == nil {
		t.Fatalf("event = %+v, want a retryable error for the current fetch", ev)
	}
}

func TestFetcher_ErrorKeepsStateAndEmitsRetry(t *testing.T) {
	store := state.NewStore()
	store.Replace([]catalog.Product{{ID: "kept"}}, catalog.Pagination{TotalItems: 1}, 1)

	sink := &eventSink{}
	lister := &scriptedLister{responses: []func(catalog.ListQuery) (catalog.ListResponse, error){
		fail(errors.New("connection refused")),
		respond("fresh"),
	}}
	f := New(lister, store, sink, zerolog.Nop())

	f.Fetch(context.Background(), change(2, "shelf"))

	snap := store.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "kept" {
		t.Fatalf("products = %#v, want prior state kept on failure", snap.Products)
	}
	if snap.LastError == nil {
		t.Fatal("LastError = nil, want the fetch error recorded")
	}

	ev := sink.last(t)
	if ev.Level != notify.Error || ev.Retry == nil {
		t.Fatalf("event = %+v, want error with retry action", ev)
	}

	// The retry re-runs the identical query descriptor and succeeds.
	ev.Retry()
	snap = store.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "fresh" {
		t.Fatalf("products = %#v, want retried result", snap.Products)
	}
	lister.mu.Lock()
	defer lister.mu.Unlock()
	if len(lister.queries) != 2 || lister.queries[0] != lister.queries[1] {
		t.Fatalf("queries = %#v, want the retry to reuse the same descriptor", lister.queries)
	}
}
