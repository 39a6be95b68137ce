package services

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/dto"
)

// TransactionWriterSvc books movements.
type TransactionWriterSvc interface {
	// CreateTransaction routes a movement to an account or a card and returns every
	// booked installment, the first one at index 0.
	CreateTransaction(ctx context.Context, householdID, userID string, req dto.CreateTransactionRequest) ([]domain.Transaction, error)
}

// TransactionReaderSvc reads movements through the visibility filter.
type TransactionReaderSvc interface {
	// ListVisibleTransactions returns a page newest first and the token of the next page.
	ListVisibleTransactions(ctx context.Context, householdID, userID string, limit int, nextToken string) ([]domain.Transaction, string, error)
}

// TransactionSvcFacade combines transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}
