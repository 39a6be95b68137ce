package events

import (
	"context"
	"time"
)

// Event types published after a ledger unit of work commits.
const (
	TransactionCreated = "transaction.created"
	InvoicePaid        = "invoice.paid"
	PurchaseFinished   = "purchase.finished"
)

// Event is a committed ledger change.
type Event struct {
	Type        string    `json:"type"`
	HouseholdID string    `json:"householdID"`
	UserID      string    `json:"userID"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload"`
}

// Publisher delivers events to interested parties. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}
