// Package session manages one form-editing session: the draft offer when a
// form opens over an existing draft, debounced autosave while the user types,
// and the saved indicator shown after each persisted snapshot.
package session

import (
	"sync"
	"time"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/draft"
)

const (
	// DefaultAutosave is how long input must be quiet before the draft is
	// written. Every keystroke resets it, so a typing burst costs one write.
	DefaultAutosave = 1500 * time.Millisecond

	// DefaultSavedDecay is how long the saved indicator stays visible.
	DefaultSavedDecay = 3 * time.Second
)

// Options tune an Editor. Zero values take the defaults.
type Options struct {
	Autosave   time.Duration
	SavedDecay time.Duration

	// OnChange fires outside the session lock whenever the saved indicator
	// flips, so an event-loop UI can repaint.
	OnChange func()
}

// Editor is a single editing session over one draft key. Methods are safe
// for the UI goroutine and the autosave timer to interleave.
type Editor struct {
	drafts *draft.Store
	key    string
	opts   Options

	mu         sync.Mutex
	form       catalog.ProductForm
	dirty      bool
	saved      bool
	closed     bool
	saveTimer  *time.Timer
	decayTimer *time.Timer
}

// Open starts a session for a product identifier (empty for a new product),
// seeded with the current field values. When a draft already exists for the
// key it is returned alongside, and the caller decides between UseDraft and
// DiscardDraft before editing resumes.
func Open(drafts *draft.Store, productID string, base catalog.ProductForm, opts Options) (*Editor, draft.Draft, bool) {
	if opts.Autosave <= 0 {
		opts.Autosave = DefaultAutosave
	}
	if opts.SavedDecay <= 0 {
		opts.SavedDecay = DefaultSavedDecay
	}
	e := &Editor{
		drafts: drafts,
		key:    draft.Key(productID),
		opts:   opts,
		form:   base,
	}
	pending, ok := drafts.Load(e.key)
	return e, pending, ok
}

// Key returns the draft key this session writes to.
func (e *Editor) Key() string {
	return e.key
}

// UseDraft replaces the form with the offered draft's contents.
func (e *Editor) UseDraft(d draft.Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.form = d.Form
}

// DiscardDraft drops the offered draft; editing starts from the seeded
// values.
func (e *Editor) DiscardDraft() {
	e.drafts.Clear(e.key)
}

// Apply mutates the form and re-arms the autosave window. The draft on disk
// trails the form by at most the autosave interval.
func (e *Editor) Apply(mutator func(*catalog.ProductForm)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	mutator(&e.form)
	e.dirty = true
	if e.saveTimer != nil {
		e.saveTimer.Stop()
	}
	e.saveTimer = time.AfterFunc(e.opts.Autosave, e.autosave)
}

// Form returns a copy of the current field values.
func (e *Editor) Form() catalog.ProductForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.form
	f.Images = append([]string(nil), e.form.Images...)
	return f
}

// DraftSaved reports whether the saved indicator is currently showing.
func (e *Editor) DraftSaved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved
}

// Flush persists the current form immediately, regardless of the autosave
// window.
func (e *Editor) Flush() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.flushLocked()
	e.mu.Unlock()

	if e.opts.OnChange != nil {
		e.opts.OnChange()
	}
}

// CancelWithSave ends the session, persisting any unsaved edits first so the
// next open can offer them back. Cancel never discards work.
func (e *Editor) CancelWithSave() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.dirty {
		e.flushLocked()
	}
	e.teardownLocked()
	e.mu.Unlock()
}

// Close ends the session without saving. Used after a successful commit,
// when the coordinator has already cleared the draft. No timer fires after
// Close returns.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
}

func (e *Editor) autosave() {
	e.mu.Lock()
	if e.closed || !e.dirty {
		e.mu.Unlock()
		return
	}
	e.flushLocked()
	e.mu.Unlock()

	if e.opts.OnChange != nil {
		e.opts.OnChange()
	}
}

func (e *Editor) flushLocked() {
	e.drafts.Save(e.key, draft.Draft{Form: e.form})
	e.dirty = false
	e.saved = true
	if e.decayTimer != nil {
		e.decayTimer.Stop()
	}
	e.decayTimer = time.AfterFunc(e.opts.SavedDecay, e.decaySaved)
}

func (e *Editor) decaySaved() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.saved = false
	e.mu.Unlock()

	if e.opts.OnChange != nil {
		e.opts.OnChange()
	}
}

func (e *Editor) teardownLocked() {
	e.closed = true
	e.saved = false
	if e.saveTimer != nil {
		e.saveTimer.Stop()
	}
	if e.decayTimer != nil {
		e.decayTimer.Stop()
	}
}
