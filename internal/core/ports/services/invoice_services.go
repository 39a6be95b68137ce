package services

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/dto"
)

// InvoiceSvcFacade defines the card statement operations.
type InvoiceSvcFacade interface {
	// PayInvoice debits the account, credits the statement and restores card limit atomically.
	PayInvoice(ctx context.Context, householdID, userID, invoiceID string, req dto.PayInvoiceRequest) (*domain.Invoice, *domain.Transaction, error)

	// CurrentInvoice returns the oldest unpaid statement, else the latest, else nil.
	CurrentInvoice(ctx context.Context, householdID, userID, cardID string) (*domain.Invoice, error)

	ListInvoices(ctx context.Context, householdID, userID, cardID string) ([]domain.Invoice, error)
}
