package domain

import "github.com/shopspring/decimal"

// RecurringBill is a monthly obligation such as rent or utilities.
type RecurringBill struct {
	BillID      string          `json:"billID"`
	HouseholdID string          `json:"householdID"`
	Name        string          `json:"name"`
	BaseValue   decimal.Decimal `json:"baseValue"`
	DueDay      int             `json:"dueDay"`
	CategoryID  *string         `json:"categoryID,omitempty"`
	IsActive    bool            `json:"isActive"`
	AuditFields

	// Computed on reads.
	IsPaidThisMonth bool `json:"isPaidThisMonth"`
}
