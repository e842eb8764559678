// Package events publishes notifications about committed transfers.
//
// Publishing happens after the transfer transaction commits and never
// affects its outcome; consumers get at-least-once delivery at best.
package events

import (
	"context"
	"time"
)

// TransferCompleted is emitted once a transfer has durably committed.
type TransferCompleted struct {
	EventID    string    `json:"event_id"`
	TransferID int64     `json:"transfer_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Amount     string    `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publisher delivers transfer events to interested consumers.
type Publisher interface {
	PublishTransferCompleted(ctx context.Context, event TransferCompleted) error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

// PublishTransferCompleted implements Publisher.
func (NoopPublisher) PublishTransferCompleted(ctx context.Context, event TransferCompleted) error {
	return nil
}
