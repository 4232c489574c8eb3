// Package mutate coordinates write operations against the catalog service.
// Every mutation is applied optimistically to the local collection first,
// then confirmed or rolled back when the request settles. Rollback restores
// the exact captured state: field values, list position and selection
// membership.
package mutate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/draft"
	"github.com/mpelle/stockwell/internal/notify"
	"github.com/mpelle/stockwell/internal/state"
)

// Kind tags a mutation intent.
type Kind string

const (
	KindCreate    Kind = "create"
	KindUpdate    Kind = "update"
	KindDelete    Kind = "delete"
	KindSetStatus Kind = "set_status"
	KindBulk      Kind = "bulk"
)

// Intent describes one request against the remote service. A retry action
// re-applies the identical intent.
type Intent struct {
	Kind   Kind
	ID     string
	IDs    []string
	Status catalog.Status
	Action catalog.BulkAction
	Form   catalog.ProductForm
}

// State is the lifecycle of one mutation.
type State int

const (
	StateIdle State = iota
	StateApplying
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateApplying:
		return "applying"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Client is the slice of the catalog client the coordinator needs.
type Client interface {
	Create(ctx context.Context, form catalog.ProductForm) (catalog.Product, error)
	Update(ctx context.Context, id string, form catalog.ProductForm) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status catalog.Status) error
	Bulk(ctx context.Context, action catalog.BulkAction, ids []string) error
}

// createKey serializes concurrent creates: a second submission while one is
// still Applying is rejected, so the collection can never hold two
// placeholders for the same form.
const createKey = "new"

// Coordinator applies mutations optimistically and rolls them back on
// failure. Per identifier at most one mutation may be Applying; a competing
// request gets catalog.ErrBusy instead of being queued.
type Coordinator struct {
	client   Client
	store    *state.Store
	drafts   *draft.Store
	notifier notify.Notifier
	log      zerolog.Logger
}

// New builds a Coordinator.
func New(client Client, store *state.Store, drafts *draft.Store, notifier notify.Notifier, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		client:   client,
		store:    store,
		drafts:   drafts,
		notifier: notifier,
		log:      log,
	}
}

// Create submits a new product. The form must already have passed
// validation.
func (c *Coordinator) Create(ctx context.Context, form catalog.ProductForm) error {
	return c.Apply(ctx, Intent{Kind: KindCreate, Form: form})
}

// Update replaces an existing product's fields.
func (c *Coordinator) Update(ctx context.Context, id string, form catalog.ProductForm) error {
	return c.Apply(ctx, Intent{Kind: KindUpdate, ID: id, Form: form})
}

// Delete removes a product.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	return c.Apply(ctx, Intent{Kind: KindDelete, ID: id})
}

// SetStatus toggles a single product's listing state.
func (c *Coordinator) SetStatus(ctx context.Context, id string, status catalog.Status) error {
	return c.Apply(ctx, Intent{Kind: KindSetStatus, ID: id, Status: status})
}

// Bulk applies one action to many products in a single request.
func (c *Coordinator) Bulk(ctx context.Context, action catalog.BulkAction, ids []string) error {
	return c.Apply(ctx, Intent{Kind: KindBulk, Action: action, IDs: append([]string(nil), ids...)})
}

// Apply runs one intent through the Applying → Committed | RolledBack
// machine. Retry closures hand the stored intent straight back here.
func (c *Coordinator) Apply(ctx context.Context, intent Intent) error {
	switch intent.Kind {
	case KindCreate:
		return c.create(ctx, intent)
	case KindUpdate:
		return c.update(ctx, intent)
	case KindDelete:
		return c.delete(ctx, intent)
	case KindSetStatus:
		return c.setStatus(ctx, intent)
	case KindBulk:
		return c.bulk(ctx, intent)
	default:
		return fmt.Errorf("unknown mutation kind %q", intent.Kind)
	}
}

func (c *Coordinator) create(ctx context.Context, intent Intent) error {
	if err := c.store.Begin(createKey); err != nil {
		return c.conflict(err, "A product is already being created")
	}
	defer c.store.End(createKey)

	placeholder := placeholderProduct(intent.Form)
	c.store.Prepend(placeholder)
	c.transition(intent, StateApplying)

	created, err := c.client.Create(ctx, intent.Form)
	if err != nil {
		c.store.Remove(placeholder.ID)
		c.transition(intent, StateRolledBack)
		return c.fail(ctx, intent, err, "Could not create product")
	}

	c.store.Resolve(placeholder.ID, created)
	c.drafts.Clear(draft.KeyNew)
	c.transition(intent, StateCommitted)
	c.notifier.Notify(notify.Event{Level: notify.Success, Message: "Product created"})
	return nil
}

func (c *Coordinator) update(ctx context.Context, intent Intent) error {
	if err := c.store.Begin(intent.ID); err != nil {
		return c.conflict(err, "This product already has a change in progress")
	}
	defer c.store.End(intent.ID)

	prev, _, ok := c.store.Product(intent.ID)
	if !ok {
		return fmt.Errorf("product %s is not loaded", intent.ID)
	}
	c.store.Set(intent.ID, applyForm(prev, intent.Form))
	c.transition(intent, StateApplying)

	updated, err := c.client.Update(ctx, intent.ID, intent.Form)
	if err != nil {
		// Exact restore from the last-known-good copy captured above.
		c.store.Set(intent.ID, prev)
		c.transition(intent, StateRolledBack)
		return c.fail(ctx, intent, err, "Could not save changes")
	}

	c.store.Set(intent.ID, updated)
	c.drafts.Clear(draft.Key(intent.ID))
	c.transition(intent, StateCommitted)
	c.notifier.Notify(notify.Event{Level: notify.Success, Message: "Product updated"})
	return nil
}

func (c *Coordinator) delete(ctx context.Context, intent Intent) error {
	if err := c.store.Begin(intent.ID); err != nil {
		return c.conflict(err, "This product already has a change in progress")
	}
	defer c.store.End(intent.ID)

	removed, index, wasSelected, ok := c.store.Remove(intent.ID)
	if !ok {
		return fmt.Errorf("product %s is not loaded", intent.ID)
	}
	c.transition(intent, StateApplying)

	if err := c.client.Delete(ctx, intent.ID); err != nil {
		c.store.InsertAt(removed, index, wasSelected)
		c.transition(intent, StateRolledBack)
		return c.fail(ctx, intent, err, "Could not delete product")
	}

	c.drafts.Clear(draft.Key(intent.ID))
	c.transition(intent, StateCommitted)
	c.notifier.Notify(notify.Event{Level: notify.Success, Message: "Product deleted"})
	return nil
}

func (c *Coordinator) setStatus(ctx context.Context, intent Intent) error {
	if err := c.store.Begin(intent.ID); err != nil {
		return c.conflict(err, "This product already has a change in progress")
	}
	defer c.store.End(intent.ID)

	prior := c.store.SetStatuses([]string{intent.ID}, intent.Status)
	if len(prior) == 0 {
		return fmt.Errorf("product %s is not loaded", intent.ID)
	}
	c.transition(intent, StateApplying)

	if err := c.client.SetStatus(ctx, intent.ID, intent.Status); err != nil {
		c.store.RestoreStatuses(prior)
		c.transition(intent, StateRolledBack)
		return c.fail(ctx, intent, err, "Could not change product status")
	}

	c.transition(intent, StateCommitted)
	undo := Intent{Kind: KindSetStatus, ID: intent.ID, Status: prior[intent.ID]}
	c.notifier.Notify(notify.Event{
		Level:   notify.Success,
		Message: "Product " + statusVerb(intent.Status),
		Undo:    func() { _ = c.Apply(ctx, undo) },
	})
	return nil
}

func (c *Coordinator) bulk(ctx context.Context, intent Intent) error {
	if len(intent.IDs) == 0 {
		return fmt.Errorf("bulk action requires a selection")
	}
	if err := c.store.BeginAll(intent.IDs); err != nil {
		return c.conflict(err, "Some selected products already have changes in progress")
	}
	defer c.store.End(intent.IDs...)

	switch intent.Action {
	case catalog.BulkActivate, catalog.BulkDeactivate:
		return c.bulkStatus(ctx, intent)
	case catalog.BulkDelete:
		return c.bulkDelete(ctx, intent)
	default:
		return fmt.Errorf("unknown bulk action %q", intent.Action)
	}
}

// bulkStatus shows the new status on every targeted entry at once, and on
// failure restores every one of them: the user never sees a half-applied
// bulk action.
func (c *Coordinator) bulkStatus(ctx context.Context, intent Intent) error {
	status := catalog.StatusActive
	if intent.Action == catalog.BulkDeactivate {
		status = catalog.StatusInactive
	}

	prior := c.store.SetStatuses(intent.IDs, status)
	c.transition(intent, StateApplying)

	if err := c.client.Bulk(ctx, intent.Action, intent.IDs); err != nil {
		c.store.RestoreStatuses(prior)
		c.transition(intent, StateRolledBack)
		return c.fail(ctx, intent, err, "Bulk status change failed")
	}

	c.transition(intent, StateCommitted)
	c.notifier.Notify(notify.Event{
		Level:   notify.Success,
		Message: fmt.Sprintf("%d products %s", len(intent.IDs), statusVerb(status)),
	})
	return nil
}

func (c *Coordinator) bulkDelete(ctx context.Context, intent Intent) error {
	type removal struct {
		product  catalog.Product
		index    int
		selected bool
	}
	var removals []removal
	for _, id := range intent.IDs {
		if p, index, selected, ok := c.store.Remove(id); ok {
			removals = append(removals, removal{product: p, index: index, selected: selected})
		}
	}
	c.transition(intent, StateApplying)

	if err := c.client.Bulk(ctx, catalog.BulkDelete, intent.IDs); err != nil {
		// Reinsert in reverse removal order so every stored index is valid
		// against the collection it was captured from.
		for i := len(removals) - 1; i >= 0; i-- {
			r := removals[i]
			c.store.InsertAt(r.product, r.index, r.selected)
		}
		c.transition(intent, StateRolledBack)
		return c.fail(ctx, intent, err, "Bulk delete failed")
	}

	for _, id := range intent.IDs {
		c.drafts.Clear(draft.Key(id))
	}
	c.transition(intent, StateCommitted)
	c.notifier.Notify(notify.Event{
		Level:   notify.Success,
		Message: fmt.Sprintf("%d products deleted", len(intent.IDs)),
	})
	return nil
}

func (c *Coordinator) fail(ctx context.Context, intent Intent, err error, message string) error {
	c.log.Warn().Err(err).Str("kind", string(intent.Kind)).Msg("mutation rolled back")
	c.notifier.Notify(notify.Event{
		Level:   notify.Error,
		Message: message,
		Retry:   func() { _ = c.Apply(ctx, intent) },
	})
	return err
}

func (c *Coordinator) conflict(err error, message string) error {
	c.notifier.Notify(notify.Event{Level: notify.Warning, Message: message})
	return err
}

func (c *Coordinator) transition(intent Intent, s State) {
	c.log.Debug().Str("kind", string(intent.Kind)).Str("state", s.String()).Msg("mutation")
}

// placeholderProduct builds the locally-tagged entry shown while a create is
// in flight. The identifier is temporary; the server's product replaces it
// by correlation, never by guessing.
func placeholderProduct(form catalog.ProductForm) catalog.Product {
	p := applyForm(catalog.Product{}, form)
	p.ID = "pending-" + uuid.NewString()
	if p.Status == "" {
		p.Status = catalog.StatusActive
	}
	return p
}

// applyForm lays the form fields over a product. The form has passed
// validation before it reaches the coordinator, so the numeric parses cannot
// fail on accepted input.
func applyForm(p catalog.Product, form catalog.ProductForm) catalog.Product {
	p.Name = form.Name
	p.Description = form.Description
	p.Category = form.Category
	p.SKU = form.SKU
	if form.Status != "" {
		p.Status = form.Status
	}
	if price, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64); err == nil {
		p.Price = price
	}
	if stock, err := strconv.Atoi(strings.TrimSpace(form.Stock)); err == nil {
		p.Stock = stock
	}
	if len(form.Images) > 0 {
		p.Images = append([]string(nil), form.Images...)
	}
	return p
}

func statusVerb(status catalog.Status) string {
	if status == catalog.StatusActive {
		return "activated"
	}
	return "deactivated"
}
