package services

import (
	"context"
	"fmt"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/utils/accounting"
	"github.com/domohq/domo_backend/internal/utils/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lock order inside a unit of work: shopping entries, account, card, invoices.

// lockAccount locks an account the user may use. A housemate's private account is
// reported as missing.
func lockAccount(ctx context.Context, tx portsrepo.Tx, householdID, accountID, userID string) (*domain.Account, error) {
	acc, err := tx.FindAccountForUpdate(ctx, householdID, accountID)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrAccountNotFound, accountID)
	}
	if !canSeeSource(acc.OwnerID, acc.IsShared, userID) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return acc, nil
}

// lockCard is lockAccount for cards.
func lockCard(ctx context.Context, tx portsrepo.Tx, householdID, cardID, userID string) (*domain.CreditCard, error) {
	card, err := tx.FindCardForUpdate(ctx, householdID, cardID)
	if err != nil {
		return nil, notFoundAs(err, apperrors.ErrCardNotFound, cardID)
	}
	if !canSeeSource(card.OwnerID, card.IsShared, userID) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCardNotFound, cardID)
	}
	return card, nil
}

// debitAccount applies a charge to a locked account and persists it.
func debitAccount(ctx context.Context, tx portsrepo.Tx, acc *domain.Account, amount decimal.Decimal, userID string, now time.Time) error {
	if err := acc.ApplyCharge(amount); err != nil {
		return err
	}
	acc.Touch(userID, now)
	return tx.UpdateAccountBalance(ctx, *acc)
}

// creditAccount applies a deposit to a locked account and persists it.
func creditAccount(ctx context.Context, tx portsrepo.Tx, acc *domain.Account, amount decimal.Decimal, userID string, now time.Time) error {
	if err := acc.ApplyPayment(amount); err != nil {
		return err
	}
	acc.Touch(userID, now)
	return tx.UpdateAccountBalance(ctx, *acc)
}

type installmentPlan struct {
	value     decimal.Decimal
	reference time.Time
	due       time.Time
	settled   bool
}

func planInstallments(card *domain.CreditCard, date time.Time, value decimal.Decimal, n int, today time.Time) ([]installmentPlan, decimal.Decimal, error) {
	parts, err := accounting.SplitInstallments(value, n)
	if err != nil {
		return nil, decimal.Zero, apperrors.ErrInvalidAmount
	}
	exposure := decimal.Zero
	plan := make([]installmentPlan, n)
	for i, part := range parts {
		ref := billing.InvoiceReferenceDate(billing.AddMonths(date, i), card.ClosingDay)
		due := billing.SafeDueDate(ref, card.DueDay)
		settled := due.Before(today)
		if !settled {
			exposure = exposure.Add(part)
		}
		plan[i] = installmentPlan{value: part, reference: ref, due: due, settled: settled}
	}
	return plan, exposure, nil
}

// chargeCard books base as n installments on a locked card. Installments whose due
// date is already behind today are booked as settled and do not consume limit.
// base carries the shared fields; the returned transactions are not yet saved.
func chargeCard(ctx context.Context, tx portsrepo.Tx, card *domain.CreditCard, base domain.Transaction, n int, today time.Time) ([]domain.Transaction, error) {
	plan, exposure, err := planInstallments(card, base.Date, base.Value, n, today)
	if err != nil {
		return nil, err
	}
	if exposure.IsPositive() {
		if err := card.ApplyCharge(exposure); err != nil {
			return nil, err
		}
	}

	userID, now := base.CreatedBy, base.CreatedAt
	txns := make([]domain.Transaction, 0, n)
	for i, inst := range plan {
		inv, err := tx.GetOrCreateInvoiceForUpdate(ctx, domain.Invoice{
			InvoiceID:     uuid.NewString(),
			CardID:        card.CardID,
			ReferenceDate: inst.reference,
			DueDate:       inst.due,
			Value:         decimal.Zero,
			AmountPaid:    decimal.Zero,
			Status:        domain.InvoiceOpen,
			AuditFields:   domain.NewAuditFields(userID, now),
		})
		if err != nil {
			return nil, err
		}
		if inst.settled {
			inv.AddSettledCharge(inst.value)
		} else {
			inv.AddCharge(inst.value)
		}
		inv.Touch(userID, now)
		if err := tx.UpdateInvoice(ctx, *inv); err != nil {
			return nil, err
		}

		txn := base
		txn.TransactionID = uuid.NewString()
		txn.Value = inst.value
		txn.Description = domain.InstallmentDescription(base.Description, i, n)
		txn.PaymentMethod = domain.PayWithCreditCard
		txn.InvoiceID = &inv.InvoiceID
		txn.AccountID = nil
		txn.IsShared = card.IsShared
		txn.Items = nil
		txns = append(txns, txn)
	}

	if exposure.IsPositive() {
		card.Touch(userID, now)
		if err := tx.UpdateCardLimit(ctx, *card); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

// canSeeSource reports whether a user may read an account or card of its household.
func canSeeSource(ownerID string, isShared bool, userID string) bool {
	return ownerID == userID || isShared
}

// currentInvoice closes due statements, picks the one being paid and reconciles its
// value with the transactions booked on it.
func currentInvoice(ctx context.Context, tx portsrepo.Tx, card *domain.CreditCard, userID string, now, today time.Time) (*domain.Invoice, error) {
	invoices, err := tx.ListInvoicesByCardForUpdate(ctx, card.CardID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}

	dirty := make(map[int]bool)
	for i := range invoices {
		if invoices[i].CloseIfDue(card.ClosingDay, today) {
			dirty[i] = true
		}
	}

	// newest first: the oldest unpaid one is the last non-PAID
	pick := 0
	for i := len(invoices) - 1; i >= 0; i-- {
		if invoices[i].Status != domain.InvoicePaid {
			pick = i
			break
		}
	}

	total, err := tx.SumInvoiceTransactions(ctx, invoices[pick].InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoices[pick].Reconcile(total) {
		dirty[pick] = true
	}

	for i := range dirty {
		invoices[i].Touch(userID, now)
		if err := tx.UpdateInvoice(ctx, invoices[i]); err != nil {
			return nil, err
		}
	}
	current := invoices[pick]
	return &current, nil
}
