// Package mailertest provides an in-memory Mailer for tests.
package mailertest

import (
	"context"
	"fmt"
	"sync"

	"sauvini-api/pkg/mailer"
)

// Recorder stores sent messages. Setting Err makes every Send fail.
type Recorder struct {
	mu   sync.Mutex
	sent []mailer.Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return fmt.Errorf("%w: %v", mailer.ErrDelivery, r.Err)
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *Recorder) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Err = err
}

func (r *Recorder) Sent() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.sent...)
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (mailer.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return mailer.Message{}, false
	}
	return r.sent[len(r.sent)-1], true
}
