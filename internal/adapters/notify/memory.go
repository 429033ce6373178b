package notify

import (
	"context"
	"sync"

	"github.com/jrobz00/Joseph1/internal/ports"
)

// MemoryDispatcher records sends for tests and the no-email dev runtime.
type MemoryDispatcher struct {
	mu    sync.Mutex
	sent  []SentMessage
	errFn func() error
}

type SentMessage struct {
	TemplateID string
	Payload    ports.NotificationPayload
}

func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{}
}

// FailWith makes subsequent sends return the given error, for exercising
// the logged-only failure path.
func (d *MemoryDispatcher) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errFn = func() error { return err }
}

func (d *MemoryDispatcher) Send(_ context.Context, templateID string, payload ports.NotificationPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errFn != nil {
		if err := d.errFn(); err != nil {
			return err
		}
	}
	d.sent = append(d.sent, SentMessage{TemplateID: templateID, Payload: payload})
	return nil
}

func (d *MemoryDispatcher) Sent() []SentMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SentMessage, len(d.sent))
	copy(out, d.sent)
	return out
}
