package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// CatalogReader defines read operations for products and stock
type CatalogReader interface {
	FindProductByID(ctx context.Context, householdID, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, householdID string) ([]domain.Product, error)
	// ListInventory returns stock joined with product name and estimated price.
	ListInventory(ctx context.Context, householdID string) ([]domain.InventoryItem, error)
}

// CatalogWriter defines write operations for products and stock
type CatalogWriter interface {
	// SaveProduct returns apperrors.ErrDuplicate when the name is taken in the household.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpsertInventoryItem sets quantity and threshold of (household, product).
	UpsertInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
}

// CatalogTransactionSupport defines the checkout-side catalog mutations.
type CatalogTransactionSupport interface {
	// UpsertProductByName returns the product with seed's name (case-insensitive) or inserts seed.
	UpsertProductByName(ctx context.Context, seed domain.Product) (*domain.Product, error)

	// IncrementInventory adds seed.Quantity to the stock of (household, product), inserting
	// seed when the product has no stock row yet.
	IncrementInventory(ctx context.Context, seed domain.InventoryItem) error

	// UpdateProductEstimatedPrice stores the last realized unit price.
	UpdateProductEstimatedPrice(ctx context.Context, product domain.Product) error
}

// CatalogRepositoryFacade combines catalog read and write interfaces.
type CatalogRepositoryFacade interface {
	CatalogReader
	CatalogWriter
}
