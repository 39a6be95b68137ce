package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/domohq/domo_backend/internal/adapters/database/memory"
	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	s.SeedHousehold(domain.Household{HouseholdID: "h1"},
		domain.Member{UserID: "ana", Role: domain.RoleMaster},
		domain.Member{UserID: "bruno", Role: domain.RoleMember})
	s.SeedHousehold(domain.Household{HouseholdID: "h2"},
		domain.Member{UserID: "carla", Role: domain.RoleMaster})
	return s
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	require.NoError(t, s.SaveAccount(ctx, domain.Account{AccountID: "a1", HouseholdID: "h1", OwnerID: "ana", Balance: decimal.NewFromInt(100)}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		acc, err := tx.FindAccountForUpdate(ctx, "h1", "a1")
		require.NoError(t, err)
		acc.Balance = decimal.Zero
		require.NoError(t, tx.UpdateAccountBalance(ctx, *acc))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.FindAccountByID(ctx, "h1", "a1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(acc.Balance))
}

func TestWithinTx_CancelledContextDoesNotCommit(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		cancel()
		return tx.SaveAccount(ctx, domain.Account{AccountID: "a1", HouseholdID: "h1", OwnerID: "ana"})
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.FindAccountByID(context.Background(), "h1", "a1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetOrCreateInvoice_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	ref := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for _, id := range []string{"inv-1", "inv-2"} {
		err := s.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
			inv, err := tx.GetOrCreateInvoiceForUpdate(ctx, domain.Invoice{InvoiceID: id, CardID: "c1", ReferenceDate: ref, Status: domain.InvoiceOpen})
			ids = append(ids, inv.InvoiceID)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"inv-1", "inv-1"}, ids)

	list, err := s.ListInvoicesByCard(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListVisibleTransactions(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveAccount(ctx, domain.Account{AccountID: "ana-private", HouseholdID: "h1", OwnerID: "ana"}))
	require.NoError(t, s.SaveAccount(ctx, domain.Account{AccountID: "bruno-shared", HouseholdID: "h1", OwnerID: "bruno", IsShared: true}))
	require.NoError(t, s.SaveAccount(ctx, domain.Account{AccountID: "carla-shared", HouseholdID: "h2", OwnerID: "carla", IsShared: true}))
	require.NoError(t, s.SaveTransactions(ctx, []domain.Transaction{
		{TransactionID: "t1", HouseholdID: "h1", AccountID: ptr("ana-private"), Date: day, Value: decimal.NewFromInt(1)},
		{TransactionID: "t2", HouseholdID: "h1", AccountID: ptr("bruno-shared"), Date: day.AddDate(0, 0, 1), IsShared: true, Value: decimal.NewFromInt(2)},
		{TransactionID: "t3", HouseholdID: "h2", AccountID: ptr("carla-shared"), Date: day, IsShared: true, Value: decimal.NewFromInt(3)},
	}))

	ids := func(txns []domain.Transaction) []string {
		out := make([]string, len(txns))
		for i, t := range txns {
			out[i] = t.TransactionID
		}
		return out
	}

	got, err := s.ListVisibleTransactions(ctx, repositories.TransactionQuery{HouseholdID: "h1", ViewerID: "ana"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, ids(got))
	assert.Equal(t, "bruno", got[0].FundingOwnerID)

	got, err = s.ListVisibleTransactions(ctx, repositories.TransactionQuery{HouseholdID: "h1", ViewerID: "bruno"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids(got))

	got, err = s.ListVisibleTransactions(ctx, repositories.TransactionQuery{HouseholdID: "h1", ViewerID: "carla"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
