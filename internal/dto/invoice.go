package dto

import (
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/money"
)

// PayInvoiceRequest pays (part of) a statement from an account.
type PayInvoiceRequest struct {
	AccountID string       `json:"accountID" binding:"required"`
	Amount    money.Amount `json:"amount"`
	Date      string       `json:"date" binding:"required,isodate"`
}

// InvoiceResponse defines the data returned for a statement.
type InvoiceResponse struct {
	InvoiceID     string               `json:"invoiceID"`
	CardID        string               `json:"cardID"`
	ReferenceDate string               `json:"referenceDate"`
	DueDate       string               `json:"dueDate"`
	Value         money.Amount         `json:"value"`
	AmountPaid    money.Amount         `json:"amountPaid"`
	Outstanding   money.Amount         `json:"outstanding"`
	Status        domain.InvoiceStatus `json:"status"`
}

// ToInvoiceResponse converts a domain.Invoice.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		CardID:        inv.CardID,
		ReferenceDate: FormatDate(inv.ReferenceDate),
		DueDate:       FormatDate(inv.DueDate),
		Value:         money.NewAmount(inv.Value),
		AmountPaid:    money.NewAmount(inv.AmountPaid),
		Outstanding:   money.NewAmount(inv.Outstanding()),
		Status:        inv.Status,
	}
}

// ToInvoiceResponses converts a slice of invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}

// PayInvoiceResponse carries the updated statement and the payment movement.
type PayInvoiceResponse struct {
	Invoice     InvoiceResponse     `json:"invoice"`
	Transaction TransactionResponse `json:"transaction"`
}
