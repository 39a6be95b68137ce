package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// ShoppingListReader defines read operations for shopping list entries
type ShoppingListReader interface {
	// ListShoppingEntries returns entries joined with the product name, ordered by name.
	ListShoppingEntries(ctx context.Context, householdID string) ([]domain.ShoppingListEntry, error)
}

// ShoppingListTransactionSupport defines the derivation and checkout mutations.
type ShoppingListTransactionSupport interface {
	// UpsertDerivedEntry inserts seed, or refreshes quantity and estimate of an existing
	// un-purchased entry for the same product. Purchased entries are left untouched.
	UpsertDerivedEntry(ctx context.Context, seed domain.ShoppingListEntry) error

	// UpsertManualEntry inserts seed or replaces quantity of the existing entry, marking it manual.
	UpsertManualEntry(ctx context.Context, seed domain.ShoppingListEntry) (*domain.ShoppingListEntry, error)

	// DeleteStaleDerivedEntries removes un-purchased derived entries whose product is not in keep.
	DeleteStaleDerivedEntries(ctx context.Context, householdID string, keep []string) (int64, error)

	// ListPurchasedEntriesForUpdate locks the entries marked purchased.
	ListPurchasedEntriesForUpdate(ctx context.Context, householdID string) ([]domain.ShoppingListEntry, error)

	FindShoppingEntryForUpdate(ctx context.Context, householdID, entryID string) (*domain.ShoppingListEntry, error)
	UpdateShoppingEntry(ctx context.Context, entry domain.ShoppingListEntry) error
	DeleteShoppingEntry(ctx context.Context, householdID, entryID string) error
}
