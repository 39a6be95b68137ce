package dto

import (
	"time"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/utils/money"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name     string       `json:"name" binding:"required,max=100"`
	Balance  money.Amount `json:"balance"`
	Limit    money.Amount `json:"limit"`    // overdraft allowance
	IsShared bool         `json:"isShared"` // visible to housemates
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string       `json:"accountID"`
	OwnerID       string       `json:"ownerID"`
	Name          string       `json:"name"`
	Balance       money.Amount `json:"balance"`
	Limit         money.Amount `json:"limit"`
	IsShared      bool         `json:"isShared"`
	CreatedAt     time.Time    `json:"createdAt"`
	LastUpdatedAt time.Time    `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		OwnerID:       acc.OwnerID,
		Name:          acc.Name,
		Balance:       money.NewAmount(acc.Balance),
		Limit:         money.NewAmount(acc.Limit),
		IsShared:      acc.IsShared,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// CreateCreditCardRequest defines the data needed to register a card.
type CreateCreditCardRequest struct {
	Name       string       `json:"name" binding:"required,max=100"`
	LimitTotal money.Amount `json:"limitTotal"`
	ClosingDay int          `json:"closingDay" binding:"required,min=1,max=31"`
	DueDay     int          `json:"dueDay" binding:"required,min=1,max=31"`
	IsShared   bool         `json:"isShared"`
}

// CreditCardResponse defines the data returned for a card.
type CreditCardResponse struct {
	CardID         string           `json:"cardID"`
	OwnerID        string           `json:"ownerID"`
	Name           string           `json:"name"`
	LimitTotal     money.Amount     `json:"limitTotal"`
	LimitAvailable money.Amount     `json:"limitAvailable"`
	ClosingDay     int              `json:"closingDay"`
	DueDay         int              `json:"dueDay"`
	IsShared       bool             `json:"isShared"`
	CurrentInvoice *InvoiceResponse `json:"currentInvoice,omitempty"`
}

// ToCreditCardResponse converts a card and its optional current statement.
func ToCreditCardResponse(card *domain.CreditCard, current *domain.Invoice) CreditCardResponse {
	res := CreditCardResponse{
		CardID:         card.CardID,
		OwnerID:        card.OwnerID,
		Name:           card.Name,
		LimitTotal:     money.NewAmount(card.LimitTotal),
		LimitAvailable: money.NewAmount(card.LimitAvailable),
		ClosingDay:     card.ClosingDay,
		DueDay:         card.DueDay,
		IsShared:       card.IsShared,
	}
	if current != nil {
		inv := ToInvoiceResponse(current)
		res.CurrentInvoice = &inv
	}
	return res
}

// ToListCreditCardResponse converts card summaries.
func ToListCreditCardResponse(cards []domain.CardSummary) []CreditCardResponse {
	res := make([]CreditCardResponse, len(cards))
	for i := range cards {
		res[i] = ToCreditCardResponse(&cards[i].Card, cards[i].CurrentInvoice)
	}
	return res
}
