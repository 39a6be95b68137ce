package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account of the household.
	FindAccountByID(ctx context.Context, householdID, accountID string) (*domain.Account, error)

	// ListAccountsVisibleTo lists the household accounts owned by userID or shared.
	ListAccountsVisibleTo(ctx context.Context, householdID, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that support ledger transactions
type AccountTransactionSupport interface {
	// FindAccountForUpdate selects the account and locks it until the transaction ends.
	FindAccountForUpdate(ctx context.Context, householdID, accountID string) (*domain.Account, error)

	// UpdateAccountBalance persists the balance of a locked account.
	UpdateAccountBalance(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines the account read and write interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
