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
	"github.com/google/uuid"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	store portsrepo.Store
}

// NewInvoiceService creates the statement payment workflow.
func NewInvoiceService(store portsrepo.Store, options ...ServiceOption) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService: newBaseService(store, options...),
		store:       store,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// InvoicePayment is the payload of the invoice.paid event.
type InvoicePayment struct {
	Invoice     domain.Invoice     `json:"invoice"`
	Transaction domain.Transaction `json:"transaction"`
}

func (s *invoiceService) PayInvoice(ctx context.Context, householdID, userID, invoiceID string, req dto.PayInvoiceRequest) (*domain.Invoice, *domain.Transaction, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, nil, err
	}
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrInvalidAmount)
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, nil, err
	}
	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		return nil, nil, fmt.Errorf("%w: accountID is required", apperrors.ErrValidation)
	}

	now := s.Now()
	var paid domain.Invoice
	var payment domain.Transaction
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		known, err := tx.FindInvoiceByID(ctx, householdID, invoiceID)
		if err != nil {
			return notFoundAs(err, apperrors.ErrInvoiceNotFound, invoiceID)
		}
		acc, err := lockAccount(ctx, tx, householdID, accountID, userID)
		if err != nil {
			return err
		}
		card, err := lockCard(ctx, tx, householdID, known.CardID, userID)
		if err != nil {
			return err
		}
		inv, err := tx.FindInvoiceForUpdate(ctx, householdID, invoiceID)
		if err != nil {
			return notFoundAs(err, apperrors.ErrInvoiceNotFound, invoiceID)
		}

		if err := inv.ApplyPayment(amount); err != nil {
			return err
		}
		if err := debitAccount(ctx, tx, acc, amount, userID, now); err != nil {
			return err
		}
		if err := card.ApplyPayment(amount); err != nil {
			return err
		}
		card.Touch(userID, now)
		if err := tx.UpdateCardLimit(ctx, *card); err != nil {
			return err
		}
		inv.Touch(userID, now)
		if err := tx.UpdateInvoice(ctx, *inv); err != nil {
			return err
		}

		payment = domain.Transaction{
			TransactionID: uuid.NewString(),
			HouseholdID:   householdID,
			Description:   fmt.Sprintf("Invoice payment %s %s", card.Name, inv.ReferenceDate.Format("01/2006")),
			Value:         amount,
			Type:          domain.Expense,
			PaymentMethod: domain.PayWithAccount,
			Date:          date,
			AccountID:     &acc.AccountID,
			IsShared:      acc.IsShared,
			AuditFields:   domain.NewAuditFields(userID, now),
		}
		if err := tx.SaveTransactions(ctx, []domain.Transaction{payment}); err != nil {
			return err
		}
		paid = *inv
		return nil
	})
	if err != nil {
		return nil, nil, s.storeError(ctx, err, "Failed to pay invoice", slog.String("invoice_id", invoiceID))
	}

	s.LogInfo(ctx, "Invoice payment applied",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("status", string(paid.Status)))
	s.Publish(ctx, householdID, userID, events.InvoicePaid, InvoicePayment{Invoice: paid, Transaction: payment})
	return &paid, &payment, nil
}

func (s *invoiceService) CurrentInvoice(ctx context.Context, householdID, userID, cardID string) (*domain.Invoice, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	var current *domain.Invoice
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		card, err := lockCard(ctx, tx, householdID, cardID, userID)
		if err != nil {
			return err
		}
		current, err = currentInvoice(ctx, tx, card, userID, s.Now(), s.Today())
		return err
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to resolve current invoice", slog.String("card_id", cardID))
	}
	return current, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, householdID, userID, cardID string) ([]domain.Invoice, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	card, err := s.store.FindCardByID(ctx, householdID, cardID)
	if err != nil {
		return nil, s.storeError(ctx, notFoundAs(err, apperrors.ErrCardNotFound, cardID), "Failed to load card")
	}
	if !canSeeSource(card.OwnerID, card.IsShared, userID) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCardNotFound, cardID)
	}
	invoices, err := s.store.ListInvoicesByCard(ctx, card.CardID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list invoices", slog.String("card_id", cardID))
	}
	return invoices, nil
}
