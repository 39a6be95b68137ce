package domain

import (
	"fmt"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CreditCard holds the revolving limit. 0 <= LimitAvailable <= LimitTotal.
type CreditCard struct {
	CardID         string          `json:"cardID"`
	HouseholdID    string          `json:"householdID"`
	OwnerID        string          `json:"ownerID"`
	Name           string          `json:"name"`
	LimitTotal     decimal.Decimal `json:"limitTotal"`
	LimitAvailable decimal.Decimal `json:"limitAvailable"`
	ClosingDay     int             `json:"closingDay"`
	DueDay         int             `json:"dueDay"`
	IsShared       bool            `json:"isShared"`
	AuditFields
}

// ApplyCharge reserves limit for a purchase.
func (c *CreditCard) ApplyCharge(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if amount.GreaterThan(c.LimitAvailable) {
		return fmt.Errorf("%w: card %s has %s available, charge is %s",
			apperrors.ErrInsufficientCreditLimit, c.CardID, c.LimitAvailable.StringFixed(2), amount.StringFixed(2))
	}
	c.LimitAvailable = c.LimitAvailable.Sub(amount)
	return nil
}

// ApplyPayment releases limit, never beyond LimitTotal.
func (c *CreditCard) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	c.LimitAvailable = decimal.Min(c.LimitAvailable.Add(amount), c.LimitTotal)
	return nil
}

// ValidDay reports whether d can be used as a closing or due day.
func ValidDay(d int) bool {
	return d >= 1 && d <= 31
}

// CardSummary is a card together with the statement currently being paid.
type CardSummary struct {
	Card           CreditCard
	CurrentInvoice *Invoice
}
