// Package state provides the canonical container for the loaded product
// collection, its pagination metadata, and the bulk-operation selection.
//
// # Ownership
//
// Only two components write here, and never in the same logical step:
//
//   - the fetcher, when an accepted listing response replaces products and
//     pagination together (Replace)
//   - the mutation coordinator, during optimistic apply and rollback
//     (Prepend/Resolve/Set/Remove/InsertAt/SetStatuses and their inverses)
//
// Every write is a single critical section, so the invariants hold at every
// observable point: the selection is always a subset of the loaded
// identifiers, and pagination always describes the collection it arrived
// with.
//
// # Staleness
//
// Replace carries the sequence number of the filter state that triggered the
// fetch, and BeginFetch records the highest sequence ever dispatched. A
// response below the highest dispatched sequence is discarded even when the
// newer fetch failed, which is what prevents a slow early fetch from
// overwriting a newer one or masking its error. While mutations are
// Applying, Replace reconciles by identifier: entries under mutation keep
// their optimistic copy, optimistically removed entries stay removed, and
// create placeholders stay at the top, instead of being clobbered by the
// refresh.
//
// # Snapshots
//
// Snapshot returns defensive copies, and a failed fetch keeps the previous
// data while recording the error, so the UI can render without holding the
// lock and without racing a concurrent write.
package state
