package dto

import (
	"time"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/money"
)

// TransactionItemRequest is one itemized line of a purchase.
type TransactionItemRequest struct {
	Description string       `json:"description" binding:"required,max=255"`
	Value       money.Amount `json:"value"`
	Quantity    money.Amount `json:"quantity"`
}

// CreateTransactionRequest defines a movement to book.
type CreateTransactionRequest struct {
	Description     string                   `json:"description" binding:"required,max=255"`
	Value           money.Amount             `json:"value"`
	Type            domain.TransactionType   `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Date            string                   `json:"date" binding:"required,isodate"`
	PaymentMethod   domain.PaymentMethod     `json:"paymentMethod" binding:"omitempty,paymethod"`
	AccountID       *string                  `json:"accountID"`
	CardID          *string                  `json:"cardID"`
	Installments    int                      `json:"installments" binding:"omitempty,min=1,max=72"`
	Items           []TransactionItemRequest `json:"items" binding:"omitempty,dive"`
	CategoryID      *string                  `json:"categoryID"`
	RecurringBillID *string                  `json:"recurringBillID"`
	IsShared        *bool                    `json:"isShared"` // honoured for INCOME only
}

// TransactionItemResponse defines an itemized line.
type TransactionItemResponse struct {
	Description string       `json:"description"`
	Value       money.Amount `json:"value"`
	Quantity    money.Amount `json:"quantity"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                    `json:"transactionID"`
	Description     string                    `json:"description"`
	Value           money.Amount              `json:"value"`
	Type            domain.TransactionType    `json:"type"`
	PaymentMethod   domain.PaymentMethod      `json:"paymentMethod"`
	Date            string                    `json:"date"`
	CategoryID      *string                   `json:"categoryID,omitempty"`
	AccountID       *string                   `json:"accountID,omitempty"`
	InvoiceID       *string                   `json:"invoiceID,omitempty"`
	RecurringBillID *string                   `json:"recurringBillID,omitempty"`
	IsShared        bool                      `json:"isShared"`
	OwnerID         string                    `json:"ownerID,omitempty"`
	SourceName      string                    `json:"sourceName,omitempty"`
	Items           []TransactionItemResponse `json:"items"`
	CreatedAt       time.Time                 `json:"createdAt"`
	CreatedBy       string                    `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, len(txn.Items))
	for i, it := range txn.Items {
		items[i] = TransactionItemResponse{
			Description: it.Description,
			Value:       money.NewAmount(it.Value),
			Quantity:    money.NewAmount(it.Quantity),
		}
	}
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		Description:     txn.Description,
		Value:           money.NewAmount(txn.Value),
		Type:            txn.Type,
		PaymentMethod:   txn.PaymentMethod,
		Date:            FormatDate(txn.Date),
		CategoryID:      txn.CategoryID,
		AccountID:       txn.AccountID,
		InvoiceID:       txn.InvoiceID,
		RecurringBillID: txn.RecurringBillID,
		IsShared:        txn.IsShared,
		OwnerID:         txn.FundingOwnerID,
		SourceName:      txn.SourceName,
		Items:           items,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// CreateTransactionResponse returns the first installment and every booked installment.
type CreateTransactionResponse struct {
	Transaction  TransactionResponse   `json:"transaction"`
	Installments []TransactionResponse `json:"installments,omitempty"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of visible transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}
