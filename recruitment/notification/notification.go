package notification

import (
	"context"
	"time"
)

// Message is the status-change email payload
type Message struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Name       string    `json:"name"`
	OfferTitle string    `json:"offerTitle"`
	NewStatus  string    `json:"newStatus"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Sender delivers a message once
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher hands a message off for delivery. Callers treat failures as
// non-fatal: the status change is already persisted.
type Dispatcher interface {
	Notify(ctx context.Context, msg Message) error
}

// Queue is a FIFO of encoded messages
type Queue interface {
	Dispatcher
	// Dequeue blocks up to timeout; a nil message means the queue was empty
	Dequeue(ctx context.Context, timeout time.Duration) (*Message, error)
}

// DirectDispatcher sends synchronously, for deployments without a queue
type DirectDispatcher struct {
	Sender Sender
}

func (d DirectDispatcher) Notify(ctx context.Context, msg Message) error {
	return d.Sender.Send(ctx, msg)
}
