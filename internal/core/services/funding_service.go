package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/google/uuid"
)

// fundingService implements the FundingSvcFacade interface
type fundingService struct {
	BaseService
	store portsrepo.Store
}

// NewFundingService creates the account and card service.
func NewFundingService(store portsrepo.Store, options ...ServiceOption) portssvc.FundingSvcFacade {
	return &fundingService{
		BaseService: newBaseService(store, options...),
		store:       store,
	}
}

var _ portssvc.FundingSvcFacade = (*fundingService)(nil)

func (s *fundingService) CreateAccount(ctx context.Context, householdID, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	limit := req.Limit.Round(2)
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: limit cannot be negative", apperrors.ErrInvalidAmount)
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		HouseholdID: householdID,
		OwnerID:     userID,
		Name:        name,
		Balance:     req.Balance.Round(2),
		Limit:       limit,
		IsShared:    req.IsShared,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, s.storeError(ctx, err, "Failed to save account", slog.String("household_id", householdID))
	}
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *fundingService) ListAccounts(ctx context.Context, householdID, userID string) ([]domain.Account, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	accounts, err := s.store.ListAccountsVisibleTo(ctx, householdID, userID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list accounts", slog.String("household_id", householdID))
	}
	return accounts, nil
}

func (s *fundingService) CreateCreditCard(ctx context.Context, householdID, userID string, req dto.CreateCreditCardRequest) (*domain.CreditCard, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	limit := req.LimitTotal.Round(2)
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: limit cannot be negative", apperrors.ErrInvalidAmount)
	}
	if !domain.ValidDay(req.ClosingDay) || !domain.ValidDay(req.DueDay) {
		return nil, fmt.Errorf("%w: closingDay and dueDay must be between 1 and 31", apperrors.ErrValidation)
	}

	card := domain.CreditCard{
		CardID:         uuid.NewString(),
		HouseholdID:    householdID,
		OwnerID:        userID,
		Name:           name,
		LimitTotal:     limit,
		LimitAvailable: limit,
		ClosingDay:     req.ClosingDay,
		DueDay:         req.DueDay,
		IsShared:       req.IsShared,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.store.SaveCard(ctx, card); err != nil {
		return nil, s.storeError(ctx, err, "Failed to save credit card", slog.String("household_id", householdID))
	}
	s.LogInfo(ctx, "Credit card created", slog.String("card_id", card.CardID))
	return &card, nil
}

func (s *fundingService) ListCreditCards(ctx context.Context, householdID, userID string) ([]domain.CardSummary, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	var summaries []domain.CardSummary
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		cards, err := tx.ListCardsVisibleTo(ctx, householdID, userID)
		if err != nil {
			return err
		}
		summaries = make([]domain.CardSummary, 0, len(cards))
		for i := range cards {
			card, err := lockCard(ctx, tx, householdID, cards[i].CardID, userID)
			if err != nil {
				return err
			}
			current, err := currentInvoice(ctx, tx, card, userID, s.Now(), s.Today())
			if err != nil {
				return err
			}
			summaries = append(summaries, domain.CardSummary{Card: *card, CurrentInvoice: current})
		}
		return nil
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list credit cards", slog.String("household_id", householdID))
	}
	return summaries, nil
}
