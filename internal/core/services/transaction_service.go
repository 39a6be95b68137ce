package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/events"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionPageSize = 50
	maxTransactionPageSize     = 200
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	store portsrepo.Store
}

// NewTransactionService creates the transaction engine.
func NewTransactionService(store portsrepo.Store, options ...ServiceOption) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: newBaseService(store, options...),
		store:       store,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, householdID, userID string, req dto.CreateTransactionRequest) ([]domain.Transaction, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	base, installments, err := s.validateCreate(householdID, userID, req)
	if err != nil {
		s.LogDebug(ctx, "Rejected transaction request", slog.String("error", err.Error()))
		return nil, err
	}

	var booked []domain.Transaction
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		if err := resolveLinks(ctx, tx, householdID, req); err != nil {
			return err
		}

		switch {
		case base.Type == domain.Income:
			acc, err := lockAccount(ctx, tx, householdID, *req.AccountID, userID)
			if err != nil {
				return err
			}
			if err := creditAccount(ctx, tx, acc, base.Value, userID, base.CreatedAt); err != nil {
				return err
			}
			txn := base
			txn.TransactionID = uuid.NewString()
			txn.PaymentMethod = domain.PayWithAccount
			txn.AccountID = &acc.AccountID
			txn.IsShared = req.IsShared != nil && *req.IsShared
			booked = []domain.Transaction{txn}

		case base.PaymentMethod == domain.PayWithAccount:
			acc, err := lockAccount(ctx, tx, householdID, *req.AccountID, userID)
			if err != nil {
				return err
			}
			if err := debitAccount(ctx, tx, acc, base.Value, userID, base.CreatedAt); err != nil {
				return err
			}
			txn := base
			txn.TransactionID = uuid.NewString()
			txn.AccountID = &acc.AccountID
			txn.IsShared = acc.IsShared
			booked = []domain.Transaction{txn}

		default:
			card, err := lockCard(ctx, tx, householdID, *req.CardID, userID)
			if err != nil {
				return err
			}
			booked, err = chargeCard(ctx, tx, card, base, installments, s.Today())
			if err != nil {
				return err
			}
		}

		booked[0].Items = buildItems(booked[0].TransactionID, req.Items)
		return tx.SaveTransactions(ctx, booked)
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to create transaction", slog.String("household_id", householdID))
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", booked[0].TransactionID),
		slog.String("household_id", householdID),
		slog.String("value", base.Value.StringFixed(2)),
		slog.Int("installments", len(booked)))
	s.Publish(ctx, householdID, userID, events.TransactionCreated, booked)
	return booked, nil
}

// validateCreate checks the request and builds the fields shared by every installment.
func (s *transactionService) validateCreate(householdID, userID string, req dto.CreateTransactionRequest) (domain.Transaction, int, error) {
	value := req.Value.Round(2)
	if !value.IsPositive() {
		return domain.Transaction{}, 0, fmt.Errorf("%w: value must be greater than zero", apperrors.ErrInvalidAmount)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Transaction{}, 0, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if !req.Type.Valid() {
		return domain.Transaction{}, 0, fmt.Errorf("%w: type must be INCOME or EXPENSE", apperrors.ErrValidation)
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return domain.Transaction{}, 0, err
	}
	installments := req.Installments
	if installments == 0 {
		installments = 1
	}
	if installments < 1 {
		return domain.Transaction{}, 0, fmt.Errorf("%w: installments must be at least 1", apperrors.ErrValidation)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Description) == "" {
			return domain.Transaction{}, 0, fmt.Errorf("%w: item %d needs a description", apperrors.ErrValidation, i)
		}
	}

	method := req.PaymentMethod
	switch {
	case req.Type == domain.Income:
		if req.AccountID == nil || *req.AccountID == "" {
			return domain.Transaction{}, 0, fmt.Errorf("%w: income requires an account", apperrors.ErrValidation)
		}
		method = domain.PayWithAccount
		installments = 1
	case !method.Valid():
		return domain.Transaction{}, 0, fmt.Errorf("%w: paymentMethod is required for expenses", apperrors.ErrValidation)
	case method == domain.PayWithAccount && (req.AccountID == nil || *req.AccountID == ""):
		return domain.Transaction{}, 0, fmt.Errorf("%w: accountID is required", apperrors.ErrValidation)
	case method == domain.PayWithCreditCard && (req.CardID == nil || *req.CardID == ""):
		return domain.Transaction{}, 0, fmt.Errorf("%w: cardID is required", apperrors.ErrValidation)
	}
	if method == domain.PayWithAccount && installments > 1 {
		return domain.Transaction{}, 0, fmt.Errorf("%w: installments are only available on credit cards", apperrors.ErrValidation)
	}

	now := s.Now()
	return domain.Transaction{
		HouseholdID:     householdID,
		Description:     description,
		Value:           value,
		Type:            req.Type,
		PaymentMethod:   method,
		Date:            date,
		CategoryID:      nonEmpty(req.CategoryID),
		RecurringBillID: nonEmpty(req.RecurringBillID),
		AuditFields:     domain.NewAuditFields(userID, now),
	}, installments, nil
}

// resolveLinks checks that the category and recurring bill belong to the household.
func resolveLinks(ctx context.Context, tx portsrepo.Tx, householdID string, req dto.CreateTransactionRequest) error {
	if id := nonEmpty(req.CategoryID); id != nil {
		if _, err := tx.FindCategoryByID(ctx, householdID, *id); err != nil {
			return notFoundAs(err, apperrors.ErrNotFound, "category "+*id)
		}
	}
	if id := nonEmpty(req.RecurringBillID); id != nil {
		if _, err := tx.FindRecurringBillByID(ctx, householdID, *id); err != nil {
			return notFoundAs(err, apperrors.ErrNotFound, "recurring bill "+*id)
		}
	}
	return nil
}

func buildItems(transactionID string, reqs []dto.TransactionItemRequest) []domain.TransactionItem {
	if len(reqs) == 0 {
		return nil
	}
	items := make([]domain.TransactionItem, len(reqs))
	for i, r := range reqs {
		qty := r.Quantity.Decimal
		if !qty.IsPositive() {
			qty = decimal.NewFromInt(1)
		}
		items[i] = domain.TransactionItem{
			ItemID:        uuid.NewString(),
			TransactionID: transactionID,
			Position:      i,
			Description:   strings.TrimSpace(r.Description),
			Value:         r.Value.Round(2),
			Quantity:      qty,
		}
	}
	return items
}

func (s *transactionService) ListVisibleTransactions(ctx context.Context, householdID, userID string, limit int, nextToken string) ([]domain.Transaction, string, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, "", err
	}

	q := portsrepo.TransactionQuery{
		HouseholdID: householdID,
		ViewerID:    userID,
		Limit:       pagination.ClampLimit(limit, defaultTransactionPageSize, maxTransactionPageSize),
	}
	if nextToken != "" {
		cursor, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		q.After = &cursor
	}

	// one extra row tells whether another page exists
	q.Limit++
	txns, err := s.store.ListVisibleTransactions(ctx, q)
	if err != nil {
		return nil, "", s.storeError(ctx, err, "Failed to list transactions", slog.String("household_id", householdID))
	}

	token := ""
	if len(txns) == q.Limit {
		txns = txns[:q.Limit-1]
		last := txns[len(txns)-1]
		token = pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	}
	return txns, token, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
