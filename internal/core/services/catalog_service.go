package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/google/uuid"
)

type catalogService struct {
	BaseService
	store portsrepo.Store
}

// NewCatalogService creates the product and stock service.
func NewCatalogService(store portsrepo.Store, options ...ServiceOption) portssvc.CatalogSvcFacade {
	return &catalogService{BaseService: newBaseService(store, options...), store: store}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) CreateProduct(ctx context.Context, householdID, userID string, req dto.CreateProductRequest) (*domain.Product, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	price := req.EstimatedPrice.Round(2)
	if price.IsNegative() || req.MinQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: price and minimum quantity cannot be negative", apperrors.ErrInvalidAmount)
	}

	product := domain.Product{
		ProductID:      uuid.NewString(),
		HouseholdID:    householdID,
		Name:           name,
		MeasureUnit:    strings.TrimSpace(req.MeasureUnit),
		EstimatedPrice: price,
		MinQuantity:    req.MinQuantity.Decimal,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.store.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: product %q", apperrors.ErrDuplicate, name)
		}
		return nil, s.storeError(ctx, err, "Failed to save product", slog.String("household_id", householdID))
	}
	return &product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, householdID, userID string) ([]domain.Product, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx, householdID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list products", slog.String("household_id", householdID))
	}
	return products, nil
}

func (s *catalogService) SetInventory(ctx context.Context, householdID, userID, productID string, req dto.SetInventoryRequest) (*domain.InventoryItem, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	if req.Quantity.IsNegative() || (req.MinQuantity != nil && req.MinQuantity.IsNegative()) {
		return nil, fmt.Errorf("%w: quantities cannot be negative", apperrors.ErrValidation)
	}

	product, err := s.store.FindProductByID(ctx, householdID, productID)
	if err != nil {
		return nil, s.storeError(ctx, notFoundAs(err, apperrors.ErrNotFound, "product "+productID), "Failed to load product")
	}
	minQty := product.MinQuantity
	if req.MinQuantity != nil {
		minQty = req.MinQuantity.Decimal
	}

	item, err := s.store.UpsertInventoryItem(ctx, domain.InventoryItem{
		ItemID:      uuid.NewString(),
		HouseholdID: householdID,
		ProductID:   product.ProductID,
		Quantity:    req.Quantity.Decimal,
		MinQuantity: minQty,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to update inventory", slog.String("product_id", productID))
	}
	s.LogDebug(ctx, "Inventory updated",
		slog.String("product_id", productID),
		slog.String("quantity", item.Quantity.String()),
		slog.Bool("below_threshold", item.BelowThreshold()))
	return item, nil
}

func (s *catalogService) ListInventory(ctx context.Context, householdID, userID string) ([]domain.InventoryItem, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	items, err := s.store.ListInventory(ctx, householdID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list inventory", slog.String("household_id", householdID))
	}
	return items, nil
}
