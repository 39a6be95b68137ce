package domain

// PurchasesCategoryName is the category shopping trips are booked under.
const PurchasesCategoryName = "Compras"

// Category groups transactions per household. Names are unique per (household, type).
type Category struct {
	CategoryID  string          `json:"categoryID"`
	HouseholdID string          `json:"householdID"`
	Name        string          `json:"name"`
	Type        TransactionType `json:"type"`
	AuditFields
}
