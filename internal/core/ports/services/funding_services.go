package services

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/dto"
)

// FundingSvcFacade manages the accounts and cards movements settle against.
type FundingSvcFacade interface {
	CreateAccount(ctx context.Context, householdID, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	ListAccounts(ctx context.Context, householdID, userID string) ([]domain.Account, error)
	CreateCreditCard(ctx context.Context, householdID, userID string, req dto.CreateCreditCardRequest) (*domain.CreditCard, error)
	ListCreditCards(ctx context.Context, householdID, userID string) ([]domain.CardSummary, error)
}
