// Package fetch turns sequenced filter changes into listing requests and
// reconciles the responses against the canonical store.
package fetch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/notify"
	"github.com/mpelle/stockwell/internal/query"
	"github.com/mpelle/stockwell/internal/state"
)

// Lister is the slice of the catalog client the fetcher needs.
type Lister interface {
	List(ctx context.Context, q catalog.ListQuery) (catalog.ListResponse, error)
}

// Fetcher issues listing requests. Responses are applied through the store's
// sequence guard, so two in-flight fetches can never finish in the wrong
// order from the user's point of view: the older response is discarded no
// matter when it arrives.
type Fetcher struct {
	client   Lister
	store    *state.Store
	notifier notify.Notifier
	log      zerolog.Logger
}

// New builds a Fetcher.
func New(client Lister, store *state.Store, notifier notify.Notifier, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Fetch runs one listing request for a sequenced filter change. On success
// the collection and pagination are replaced together; on failure the prior
// state stays intact and a retryable error event is emitted. Safe to call
// from any goroutine.
//
// The dispatch is registered with the store before the request goes out, so
// a response from an older fetch is discarded even when this one fails.
func (f *Fetcher) Fetch(ctx context.Context, change query.Change) {
	f.store.BeginFetch(change.Seq)

	resp, err := f.client.List(ctx, change.Filter.Query())
	if err != nil {
		f.store.RecordFetchError(err, change.Seq)
		f.log.Warn().Err(err).Uint64("seq", change.Seq).Msg("listing fetch failed")
		f.notifier.Notify(notify.Event{
			Level:   notify.Error,
			Message: "Could not load products",
			Retry:   func() { f.Fetch(ctx, change) },
		})
		return
	}

	if !f.store.Replace(resp.Products, resp.Pagination, change.Seq) {
		f.log.Debug().Uint64("seq", change.Seq).Msg("discarded superseded listing response")
	}
}
