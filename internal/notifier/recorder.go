package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/julianstephens/dailypunch/internal/models"
)

type Sent struct {
	Subscription models.PushSubscription
	Message      Message
}

// Recorder is a Sender that keeps messages instead of delivering them.
// With a writer set, each message is also printed.
type Recorder struct {
	mu   sync.Mutex
	out  io.Writer
	sent []Sent
}

func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

func (r *Recorder) Send(_ context.Context, sub models.PushSubscription, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Subscription: sub, Message: msg})
	if r.out != nil {
		fmt.Fprintf(r.out, "[DryRun] %s -> %s\n", msg.Text(), sub.Endpoint)
	}
	return nil
}

func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}
