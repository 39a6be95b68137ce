package repositories

import (
	"context"
	"time"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/pagination"
)

// TransactionQuery selects the transactions a viewer may read in a household.
type TransactionQuery struct {
	HouseholdID string
	ViewerID    string
	Limit       int
	After       *pagination.Cursor // nil for the first page
}

// TransactionReader defines read operations for transactions
type TransactionReader interface {
	// ListVisibleTransactions applies the visibility rule as a single set-based filter,
	// newest first, items included.
	ListVisibleTransactions(ctx context.Context, q TransactionQuery) ([]domain.Transaction, error)

	// RecurringBillsPaidIn returns the ids of bills with a transaction dated in month.
	RecurringBillsPaidIn(ctx context.Context, householdID string, month time.Time) (map[string]bool, error)
}

// TransactionWriter defines write operations for transactions
type TransactionWriter interface {
	// SaveTransactions inserts transactions and their items in bulk.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error
}

// TransactionRepositoryFacade combines transaction read and write interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
