package services

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/dto"
)

// CatalogSvcFacade manages products and stock.
type CatalogSvcFacade interface {
	CreateProduct(ctx context.Context, householdID, userID string, req dto.CreateProductRequest) (*domain.Product, error)
	ListProducts(ctx context.Context, householdID, userID string) ([]domain.Product, error)
	SetInventory(ctx context.Context, householdID, userID, productID string, req dto.SetInventoryRequest) (*domain.InventoryItem, error)
	ListInventory(ctx context.Context, householdID, userID string) ([]domain.InventoryItem, error)
}

// ShoppingSvcFacade is the replenishment engine.
type ShoppingSvcFacade interface {
	// ListShoppingNeeds reconciles the list with current stock and returns it.
	ListShoppingNeeds(ctx context.Context, householdID, userID string) ([]domain.ShoppingListEntry, error)
	AddEntry(ctx context.Context, householdID, userID string, req dto.AddShoppingEntryRequest) (*domain.ShoppingListEntry, error)
	UpdateEntry(ctx context.Context, householdID, userID, entryID string, req dto.UpdateShoppingEntryRequest) (*domain.ShoppingListEntry, error)
	RemoveEntry(ctx context.Context, householdID, userID, entryID string) error
	// FinishPurchase books the purchased entries as one transaction and restocks them.
	FinishPurchase(ctx context.Context, householdID, userID string, req dto.FinishPurchaseRequest) (*domain.PurchaseSummary, error)
}
