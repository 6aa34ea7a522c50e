package server

import (
	"sync"
	"time"

	"github.com/goliatone/go-contactform/pkg/form"
)

// pendingForms holds instances rendered by GET / until their websocket
// connects. A claimed instance belongs to its connection and leaves the map.
type pendingForms struct {
	mu    sync.Mutex
	ttl   time.Duration
	forms map[string]pendingForm
}

type pendingForm struct {
	form    *form.Form
	created time.Time
}

func newPendingForms(ttl time.Duration) *pendingForms {
	return &pendingForms{
		ttl:   ttl,
		forms: make(map[string]pendingForm),
	}
}

func (p *pendingForms) put(f *form.Form, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sweepLocked(now)
	p.forms[f.ID()] = pendingForm{form: f, created: now}
}

// take removes and returns the instance for id.
func (p *pendingForms) take(id string) (*form.Form, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.forms[id]
	if !ok {
		return nil, false
	}
	delete(p.forms, id)
	return entry.form, true
}

func (p *pendingForms) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.forms)
}

func (p *pendingForms) sweepLocked(now time.Time) {
	for id, entry := range p.forms {
		if now.Sub(entry.created) > p.ttl {
			delete(p.forms, id)
		}
	}
}
