package domain_test

import (
	"testing"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccount_ApplyCharge(t *testing.T) {
	tests := []struct {
		name        string
		charge      string
		wantErr     error
		wantBalance string
	}{
		{name: "within balance", charge: "40", wantBalance: "60"},
		{name: "uses full overdraft", charge: "150", wantBalance: "-50"},
		{name: "one cent over the overdraft", charge: "150.01", wantErr: apperrors.ErrInsufficientFunds, wantBalance: "100"},
		{name: "zero amount", charge: "0", wantErr: apperrors.ErrInvalidAmount, wantBalance: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := domain.Account{AccountID: "acc-1", Balance: dec("100"), Limit: dec("50")}
			err := acc.ApplyCharge(dec(tt.charge))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, dec(tt.wantBalance).Equal(acc.Balance), "balance %s", acc.Balance)
		})
	}
}

func TestAccount_ApplyPayment(t *testing.T) {
	acc := domain.Account{Balance: dec("-20")}
	require.NoError(t, acc.ApplyPayment(dec("30.50")))
	assert.True(t, dec("10.50").Equal(acc.Balance))
	assert.ErrorIs(t, acc.ApplyPayment(dec("-1")), apperrors.ErrValidation)
}

func TestCreditCard_ChargeAndPayment(t *testing.T) {
	card := domain.CreditCard{CardID: "card-1", LimitTotal: dec("1000"), LimitAvailable: dec("300")}

	err := card.ApplyCharge(dec("300.01"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCreditLimit)
	assert.True(t, dec("300").Equal(card.LimitAvailable))

	require.NoError(t, card.ApplyCharge(dec("300")))
	assert.True(t, card.LimitAvailable.IsZero())

	require.NoError(t, card.ApplyPayment(dec("200")))
	assert.True(t, dec("200").Equal(card.LimitAvailable))

	require.NoError(t, card.ApplyPayment(dec("5000")))
	assert.True(t, dec("1000").Equal(card.LimitAvailable), "limit must be clamped to total")
}

func TestInvoice_Lifecycle(t *testing.T) {
	inv := domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceOpen}

	inv.AddCharge(dec("100"))
	assert.Equal(t, domain.InvoiceOpen, inv.Status)

	require.NoError(t, inv.ApplyPayment(dec("40")))
	assert.Equal(t, domain.InvoiceOpen, inv.Status)
	assert.True(t, dec("60").Equal(inv.Outstanding()))

	err := inv.ApplyPayment(dec("60.01"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.True(t, dec("40").Equal(inv.AmountPaid))

	require.NoError(t, inv.ApplyPayment(dec("60")))
	assert.Equal(t, domain.InvoicePaid, inv.Status)

	inv.AddCharge(dec("10"))
	assert.Equal(t, domain.InvoiceOpen, inv.Status, "a new charge reopens a paid statement")
}

func TestInvoice_AddSettledCharge(t *testing.T) {
	inv := domain.Invoice{Status: domain.InvoiceOpen}
	inv.AddSettledCharge(dec("25"))
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.True(t, inv.Value.Equal(inv.AmountPaid))
}

func TestInvoice_CloseIfDue(t *testing.T) {
	inv := domain.Invoice{ReferenceDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: domain.InvoiceOpen}

	assert.False(t, inv.CloseIfDue(10, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.InvoiceOpen, inv.Status)

	assert.True(t, inv.CloseIfDue(10, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.InvoiceClosed, inv.Status)

	assert.False(t, inv.CloseIfDue(10, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestInvoice_Reconcile(t *testing.T) {
	inv := domain.Invoice{Value: dec("80"), AmountPaid: dec("80"), Status: domain.InvoicePaid}

	assert.False(t, inv.Reconcile(dec("80")))
	assert.True(t, inv.Reconcile(dec("120")))
	assert.True(t, dec("120").Equal(inv.Value))
	assert.Equal(t, domain.InvoiceOpen, inv.Status)
}

func TestViewer_CanSee(t *testing.T) {
	viewer := domain.NewViewer("ana", []string{"bruno"})

	tests := []struct {
		name     string
		owner    string
		isShared bool
		want     bool
	}{
		{"own private", "ana", false, true},
		{"own shared", "ana", true, true},
		{"housemate shared", "bruno", true, true},
		{"housemate private", "bruno", false, false},
		{"stranger shared", "carla", true, false},
		{"no funding owner", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, viewer.CanSee(tt.owner, tt.isShared))
		})
	}
}

func TestInventoryItem_Needed(t *testing.T) {
	item := domain.InventoryItem{Quantity: dec("2"), MinQuantity: dec("5")}
	assert.True(t, item.BelowThreshold())
	assert.True(t, dec("3").Equal(item.Needed()))

	item = domain.InventoryItem{Quantity: dec("4.5"), MinQuantity: dec("5")}
	assert.True(t, dec("1").Equal(item.Needed()), "fractional shortfall still buys one unit")

	item = domain.InventoryItem{Quantity: dec("5"), MinQuantity: dec("5")}
	assert.False(t, item.BelowThreshold())
}

func TestShoppingListEntry_UnitPrice(t *testing.T) {
	entry := domain.ShoppingListEntry{QuantityToBuy: dec("3"), EstimatedUnitPrice: dec("4.00")}
	assert.True(t, dec("4").Equal(entry.UnitPrice()))

	entry.DiscountUnitPrice = dec("3.50")
	assert.True(t, dec("3.50").Equal(entry.UnitPrice()))

	entry.RealUnitPrice = dec("3.75")
	assert.True(t, dec("3.75").Equal(entry.UnitPrice()))
	assert.True(t, dec("11.25").Equal(entry.Subtotal()))
}

func TestInstallmentDescription(t *testing.T) {
	assert.Equal(t, "TV", domain.InstallmentDescription("TV", 0, 1))
	assert.Equal(t, "TV (1/3)", domain.InstallmentDescription("TV", 0, 3))
	assert.Equal(t, "TV (3/3)", domain.InstallmentDescription("TV", 2, 3))
}
