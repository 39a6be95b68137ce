package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a movement.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// PaymentMethod selects the funding source of a movement.
type PaymentMethod string

const (
	PayWithAccount    PaymentMethod = "ACCOUNT"
	PayWithCreditCard PaymentMethod = "CREDIT_CARD"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	return m == PayWithAccount || m == PayWithCreditCard
}

// Transaction is an atomic financial movement settled against exactly one of an
// account or a card invoice. It is never edited after creation.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`
	HouseholdID     string            `json:"householdID"`
	Description     string            `json:"description"`
	Value           decimal.Decimal   `json:"value"`
	Type            TransactionType   `json:"type"`
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`
	Date            time.Time         `json:"date"`
	CategoryID      *string           `json:"categoryID,omitempty"`
	AccountID       *string           `json:"accountID,omitempty"`
	InvoiceID       *string           `json:"invoiceID,omitempty"`
	RecurringBillID *string           `json:"recurringBillID,omitempty"`
	IsShared        bool              `json:"isShared"`
	Items           []TransactionItem `json:"items,omitempty"`

	// Populated on reads from the funding account or card.
	FundingOwnerID string `json:"fundingOwnerID,omitempty"`
	SourceName     string `json:"sourceName,omitempty"`

	AuditFields
}

// TransactionItem is one line of an itemized purchase.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	Position      int             `json:"position"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// InstallmentDescription suffixes "(i/n)" to multi-installment purchases. i is zero based.
func InstallmentDescription(description string, i, n int) string {
	if n <= 1 {
		return description
	}
	return fmt.Sprintf("%s (%d/%d)", description, i+1, n)
}
