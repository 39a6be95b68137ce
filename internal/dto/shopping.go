package dto

import (
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/money"
)

// AddShoppingEntryRequest adds a product to the list by id, or by name creating it on the fly.
type AddShoppingEntryRequest struct {
	ProductID         *string      `json:"productID"`
	CreateProductName string       `json:"createProductName" binding:"omitempty,max=100"`
	QuantityToBuy     money.Amount `json:"quantityToBuy"`
}

// UpdateShoppingEntryRequest edits an entry; nil fields are left as they are.
type UpdateShoppingEntryRequest struct {
	QuantityToBuy     *money.Amount `json:"quantityToBuy"`
	RealUnitPrice     *money.Amount `json:"realUnitPrice"`
	DiscountUnitPrice *money.Amount `json:"discountUnitPrice"`
	IsPurchased       *bool         `json:"isPurchased"`
}

// FinishPurchaseRequest checks out every entry marked purchased.
type FinishPurchaseRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,paymethod"`
	SourceID      string               `json:"sourceID" binding:"required"`
	TotalValue    money.Amount         `json:"totalValue"`
	Date          string               `json:"date" binding:"required,isodate"`
}

// ShoppingListEntryResponse defines the data returned for a list entry.
type ShoppingListEntryResponse struct {
	EntryID            string             `json:"entryID"`
	ProductID          string             `json:"productID"`
	ProductName        string             `json:"productName"`
	QuantityToBuy      money.Amount       `json:"quantityToBuy"`
	EstimatedUnitPrice money.Amount       `json:"estimatedUnitPrice"`
	RealUnitPrice      money.Amount       `json:"realUnitPrice"`
	DiscountUnitPrice  money.Amount       `json:"discountUnitPrice"`
	Subtotal           money.Amount       `json:"subtotal"`
	IsPurchased        bool               `json:"isPurchased"`
	Source             domain.EntrySource `json:"source"`
}

// ToShoppingListEntryResponse converts an entry.
func ToShoppingListEntryResponse(e *domain.ShoppingListEntry) ShoppingListEntryResponse {
	return ShoppingListEntryResponse{
		EntryID:            e.EntryID,
		ProductID:          e.ProductID,
		ProductName:        e.ProductName,
		QuantityToBuy:      money.NewAmount(e.QuantityToBuy),
		EstimatedUnitPrice: money.NewAmount(e.EstimatedUnitPrice),
		RealUnitPrice:      money.NewAmount(e.RealUnitPrice),
		DiscountUnitPrice:  money.NewAmount(e.DiscountUnitPrice),
		Subtotal:           money.NewAmount(e.Subtotal()),
		IsPurchased:        e.IsPurchased,
		Source:             e.Source,
	}
}

// ToShoppingListEntryResponses converts entries.
func ToShoppingListEntryResponses(entries []domain.ShoppingListEntry) []ShoppingListEntryResponse {
	res := make([]ShoppingListEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToShoppingListEntryResponse(&entries[i])
	}
	return res
}

// FinishPurchaseResponse summarizes a checkout.
type FinishPurchaseResponse struct {
	ItemsProcessed int                 `json:"itemsProcessed"`
	Transaction    TransactionResponse `json:"transaction"`
}
