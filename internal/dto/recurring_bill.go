package dto

import (
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/money"
)

// CreateRecurringBillRequest defines a monthly bill.
type CreateRecurringBillRequest struct {
	Name       string       `json:"name" binding:"required,max=100"`
	BaseValue  money.Amount `json:"baseValue"`
	DueDay     int          `json:"dueDay" binding:"required,min=1,max=31"`
	CategoryID *string      `json:"categoryID"`
}

// RecurringBillResponse defines the data returned for a bill.
type RecurringBillResponse struct {
	BillID          string       `json:"billID"`
	Name            string       `json:"name"`
	BaseValue       money.Amount `json:"baseValue"`
	DueDay          int          `json:"dueDay"`
	CategoryID      *string      `json:"categoryID,omitempty"`
	IsActive        bool         `json:"isActive"`
	IsPaidThisMonth bool         `json:"isPaidThisMonth"`
}

// ToRecurringBillResponse converts a bill.
func ToRecurringBillResponse(b *domain.RecurringBill) RecurringBillResponse {
	return RecurringBillResponse{
		BillID:          b.BillID,
		Name:            b.Name,
		BaseValue:       money.NewAmount(b.BaseValue),
		DueDay:          b.DueDay,
		CategoryID:      b.CategoryID,
		IsActive:        b.IsActive,
		IsPaidThisMonth: b.IsPaidThisMonth,
	}
}

// ToRecurringBillResponses converts bills.
func ToRecurringBillResponses(bills []domain.RecurringBill) []RecurringBillResponse {
	res := make([]RecurringBillResponse, len(bills))
	for i := range bills {
		res[i] = ToRecurringBillResponse(&bills[i])
	}
	return res
}
