package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry of a household.
type Product struct {
	ProductID      string          `json:"productID"`
	HouseholdID    string          `json:"householdID"`
	Name           string          `json:"name"`
	MeasureUnit    string          `json:"measureUnit"`
	EstimatedPrice decimal.Decimal `json:"estimatedPrice"`
	MinQuantity    decimal.Decimal `json:"minQuantity"`
	AuditFields
}

// InventoryItem is the stock of one product in one household.
type InventoryItem struct {
	ItemID      string          `json:"itemID"`
	HouseholdID string          `json:"householdID"`
	ProductID   string          `json:"productID"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"minQuantity"`
	AuditFields

	// Populated on reads.
	ProductName    string          `json:"productName,omitempty"`
	EstimatedPrice decimal.Decimal `json:"estimatedPrice"`
}

// BelowThreshold reports whether the item needs replenishment.
func (i *InventoryItem) BelowThreshold() bool {
	return i.Quantity.LessThan(i.MinQuantity)
}

// Needed is the amount to buy to get back to the threshold, at least one unit.
func (i *InventoryItem) Needed() decimal.Decimal {
	return decimal.Max(i.MinQuantity.Sub(i.Quantity), decimal.NewFromInt(1))
}

// EntrySource tells derived shopping list entries apart from the ones added by hand.
type EntrySource string

const (
	EntryDerived EntrySource = "DERIVED"
	EntryManual  EntrySource = "MANUAL"
)

// ShoppingListEntry is a pending or already-bought need for one product.
type ShoppingListEntry struct {
	EntryID            string          `json:"entryID"`
	HouseholdID        string          `json:"householdID"`
	ProductID          string          `json:"productID"`
	QuantityToBuy      decimal.Decimal `json:"quantityToBuy"`
	EstimatedUnitPrice decimal.Decimal `json:"estimatedUnitPrice"`
	RealUnitPrice      decimal.Decimal `json:"realUnitPrice"`
	DiscountUnitPrice  decimal.Decimal `json:"discountUnitPrice"`
	IsPurchased        bool            `json:"isPurchased"`
	Source             EntrySource     `json:"source"`
	AuditFields

	// Populated on reads.
	ProductName string `json:"productName,omitempty"`
}

// UnitPrice prefers the price actually paid, then the discounted one, then the estimate.
func (e *ShoppingListEntry) UnitPrice() decimal.Decimal {
	switch {
	case e.RealUnitPrice.IsPositive():
		return e.RealUnitPrice
	case e.DiscountUnitPrice.IsPositive():
		return e.DiscountUnitPrice
	default:
		return e.EstimatedUnitPrice
	}
}

// Subtotal is UnitPrice times QuantityToBuy, rounded to cents.
func (e *ShoppingListEntry) Subtotal() decimal.Decimal {
	return e.UnitPrice().Mul(e.QuantityToBuy).Round(2)
}

// PurchaseSummary is the outcome of checking out the shopping list.
type PurchaseSummary struct {
	Transaction    Transaction
	ItemsProcessed int
}
