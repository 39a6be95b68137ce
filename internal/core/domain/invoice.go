package domain

import (
	"fmt"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/utils/billing"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of a card statement.
type InvoiceStatus string

const (
	InvoiceOpen   InvoiceStatus = "OPEN"
	InvoiceClosed InvoiceStatus = "CLOSED"
	InvoicePaid   InvoiceStatus = "PAID"
)

// Invoice is the statement of a card for one reference month. There is at most one
// per (CardID, ReferenceDate) and 0 <= AmountPaid <= Value.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	CardID        string          `json:"cardID"`
	ReferenceDate time.Time       `json:"referenceDate"` // first day of the competence month
	DueDate       time.Time       `json:"dueDate"`
	Value         decimal.Decimal `json:"value"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Status        InvoiceStatus   `json:"status"`
	AuditFields
}

// Outstanding is what is still owed on the statement.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.Value.Sub(i.AmountPaid)
}

// ClosingDate is the day the statement stops taking new charges.
func (i *Invoice) ClosingDate(closingDay int) time.Time {
	return billing.SafeDueDate(i.ReferenceDate, closingDay)
}

// AddCharge accumulates a not-yet-settled installment. A PAID statement that
// receives a new charge is owed again.
func (i *Invoice) AddCharge(amount decimal.Decimal) {
	i.Value = i.Value.Add(amount)
	i.refreshStatus()
}

// AddSettledCharge records a back-dated installment that is already considered paid.
func (i *Invoice) AddSettledCharge(amount decimal.Decimal) {
	i.Value = i.Value.Add(amount)
	i.AmountPaid = i.AmountPaid.Add(amount)
	i.refreshStatus()
}

// ApplyPayment registers a payment. Paying more than is outstanding is rejected.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if amount.GreaterThan(i.Outstanding()) {
		return fmt.Errorf("%w: payment %s exceeds outstanding %s on invoice %s",
			apperrors.ErrInvalidAmount, amount.StringFixed(2), i.Outstanding().StringFixed(2), i.InvoiceID)
	}
	i.AmountPaid = i.AmountPaid.Add(amount)
	i.refreshStatus()
	return nil
}

// CloseIfDue moves an OPEN statement to CLOSED once its closing date is behind today.
func (i *Invoice) CloseIfDue(closingDay int, today time.Time) bool {
	if i.Status != InvoiceOpen || !i.ClosingDate(closingDay).Before(DateOf(today)) {
		return false
	}
	i.Status = InvoiceClosed
	return true
}

// Reconcile replaces Value with the sum of the statement's transactions when they drift.
func (i *Invoice) Reconcile(transactionsTotal decimal.Decimal) bool {
	if i.Value.Equal(transactionsTotal) {
		return false
	}
	i.Value = transactionsTotal
	if i.AmountPaid.GreaterThan(i.Value) {
		i.AmountPaid = i.Value
	}
	i.refreshStatus()
	return true
}

func (i *Invoice) refreshStatus() {
	switch {
	case i.AmountPaid.GreaterThanOrEqual(i.Value):
		i.Status = InvoicePaid
	case i.Status == InvoicePaid:
		i.Status = InvoiceOpen
	}
}
