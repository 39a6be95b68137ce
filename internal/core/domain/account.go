package domain

import (
	"fmt"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Account is a cash holding. Balance may go negative down to -Limit.
type Account struct {
	AccountID   string          `json:"accountID"`
	HouseholdID string          `json:"householdID"`
	OwnerID     string          `json:"ownerID"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	Limit       decimal.Decimal `json:"limit"` // overdraft allowance, never negative
	IsShared    bool            `json:"isShared"`
	AuditFields
}

// Spendable is balance plus overdraft allowance.
func (a *Account) Spendable() decimal.Decimal {
	return a.Balance.Add(a.Limit)
}

// ApplyCharge debits the account. It fails without mutating when the charge would
// push the balance below -Limit.
func (a *Account) ApplyCharge(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if amount.GreaterThan(a.Spendable()) {
		return fmt.Errorf("%w: account %s can spend %s, charge is %s",
			apperrors.ErrInsufficientFunds, a.AccountID, a.Spendable().StringFixed(2), amount.StringFixed(2))
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// ApplyPayment credits the account.
func (a *Account) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}
