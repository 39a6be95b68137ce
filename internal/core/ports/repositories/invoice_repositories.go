package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for card statements
type InvoiceReader interface {
	// FindInvoiceByID retrieves a statement whose card belongs to the household.
	FindInvoiceByID(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByCard returns the statements of a card, newest reference month first.
	ListInvoicesByCard(ctx context.Context, cardID string) ([]domain.Invoice, error)
}

// InvoiceTransactionSupport defines the locking and upsert operations on statements.
type InvoiceTransactionSupport interface {
	// GetOrCreateInvoiceForUpdate returns the locked statement for (CardID, ReferenceDate),
	// inserting seed when none exists. Concurrent callers never create two rows.
	GetOrCreateInvoiceForUpdate(ctx context.Context, seed domain.Invoice) (*domain.Invoice, error)

	// FindInvoiceForUpdate locks a statement whose card belongs to the household.
	FindInvoiceForUpdate(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByCardForUpdate locks every statement of the card, newest first.
	ListInvoicesByCardForUpdate(ctx context.Context, cardID string) ([]domain.Invoice, error)

	// SumInvoiceTransactions adds up the values of transactions linked to the statement.
	SumInvoiceTransactions(ctx context.Context, invoiceID string) (decimal.Decimal, error)

	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
}
