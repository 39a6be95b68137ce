package dto

import (
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/money"
)

// CreateProductRequest defines a catalog entry.
type CreateProductRequest struct {
	Name           string       `json:"name" binding:"required,max=100"`
	MeasureUnit    string       `json:"measureUnit" binding:"omitempty,max=20"`
	EstimatedPrice money.Amount `json:"estimatedPrice"`
	MinQuantity    money.Amount `json:"minQuantity"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID      string       `json:"productID"`
	Name           string       `json:"name"`
	MeasureUnit    string       `json:"measureUnit"`
	EstimatedPrice money.Amount `json:"estimatedPrice"`
	MinQuantity    money.Amount `json:"minQuantity"`
}

// ToProductResponse converts a product.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:      p.ProductID,
		Name:           p.Name,
		MeasureUnit:    p.MeasureUnit,
		EstimatedPrice: money.NewAmount(p.EstimatedPrice),
		MinQuantity:    money.NewAmount(p.MinQuantity),
	}
}

// ToProductResponses converts products.
func ToProductResponses(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = ToProductResponse(&products[i])
	}
	return res
}

// SetInventoryRequest sets the stock of a product. A nil MinQuantity keeps the
// product default.
type SetInventoryRequest struct {
	Quantity    money.Amount  `json:"quantity"`
	MinQuantity *money.Amount `json:"minQuantity"`
}

// InventoryItemResponse defines the data returned for a stock row.
type InventoryItemResponse struct {
	ProductID      string       `json:"productID"`
	ProductName    string       `json:"productName"`
	Quantity       money.Amount `json:"quantity"`
	MinQuantity    money.Amount `json:"minQuantity"`
	BelowThreshold bool         `json:"belowThreshold"`
}

// ToInventoryItemResponse converts a stock row.
func ToInventoryItemResponse(it *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		Quantity:       money.NewAmount(it.Quantity),
		MinQuantity:    money.NewAmount(it.MinQuantity),
		BelowThreshold: it.BelowThreshold(),
	}
}

// ToInventoryItemResponses converts stock rows.
func ToInventoryItemResponses(items []domain.InventoryItem) []InventoryItemResponse {
	res := make([]InventoryItemResponse, len(items))
	for i := range items {
		res[i] = ToInventoryItemResponse(&items[i])
	}
	return res
}
