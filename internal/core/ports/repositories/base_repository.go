package repositories

import "context"

// TransactionManager runs a unit of work atomically.
type TransactionManager interface {
	// WithinTx executes fn inside one database transaction. The transaction commits
	// when fn returns nil and rolls back on error, panic or context cancellation.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Repositories is the read/write surface shared by the store and its transactions.
type Repositories interface {
	HouseholdReader
	AccountRepositoryFacade
	CreditCardRepositoryFacade
	InvoiceReader
	TransactionRepositoryFacade
	CategoryRepositoryFacade
	RecurringBillRepositoryFacade
	CatalogRepositoryFacade
	ShoppingListReader
}

// Tx is what a unit of work can do: everything plus locking reads and upserts.
type Tx interface {
	Repositories
	AccountTransactionSupport
	CreditCardTransactionSupport
	InvoiceTransactionSupport
	CategoryTransactionSupport
	CatalogTransactionSupport
	ShoppingListTransactionSupport
}

// Store is the entry point handed to services.
type Store interface {
	Repositories
	TransactionManager
}
