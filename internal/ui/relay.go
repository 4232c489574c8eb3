package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpelle/stockwell/internal/notify"
	"github.com/mpelle/stockwell/internal/query"
)

// Relay forwards engine callbacks into the running Bubble Tea program. The
// query manager and the notifier are constructed before the program exists,
// so the relay buffers anything emitted before Bind and delivers it on the
// first send.
type Relay struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

// NewRelay returns an unbound relay.
func NewRelay() *Relay {
	return &Relay{}
}

// QueryChanged delivers a sequenced filter change to the program.
func (r *Relay) QueryChanged(ch query.Change) {
	r.deliver(queryChangedMsg{change: ch})
}

// Notify delivers an engine event to the program. Satisfies
// notify.Notifier.
func (r *Relay) Notify(e notify.Event) {
	r.deliver(toastMsg{event: e})
}

// Repaint nudges the program to re-render, used by timer-driven state like
// the draft-saved indicator.
func (r *Relay) Repaint() {
	r.deliver(repaintMsg{})
}

// Bind attaches the program's Send and flushes anything buffered.
func (r *Relay) Bind(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	queued := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, msg := range queued {
		send(msg)
	}
}

func (r *Relay) deliver(msg tea.Msg) {
	r.mu.Lock()
	send := r.send
	if send == nil {
		r.pending = append(r.pending, msg)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	send(msg)
}

var _ notify.Notifier = (*Relay)(nil)
