package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/utils/billing"
	"github.com/shopspring/decimal"
)

func (v *view) FindMembership(_ context.Context, householdID, userID string) (*domain.Member, error) {
	st, unlock := v.rlock()
	defer unlock()
	m, ok := st.members[householdID][userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &m, nil
}

func (v *view) ListHousemates(_ context.Context, userID string) ([]string, error) {
	st, unlock := v.rlock()
	defer unlock()
	return st.housemates(userID), nil
}

func (s *state) housemates(userID string) []string {
	seen := map[string]struct{}{userID: {}}
	for _, roster := range s.members {
		if _, ok := roster[userID]; !ok {
			continue
		}
		for id := range roster {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Accounts

func (v *view) FindAccountByID(_ context.Context, householdID, accountID string) (*domain.Account, error) {
	st, unlock := v.rlock()
	defer unlock()
	acc, ok := st.accounts[accountID]
	if !ok || acc.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (v *view) FindAccountForUpdate(ctx context.Context, householdID, accountID string) (*domain.Account, error) {
	return v.FindAccountByID(ctx, householdID, accountID)
}

func (v *view) ListAccountsVisibleTo(_ context.Context, householdID, userID string) ([]domain.Account, error) {
	st, unlock := v.rlock()
	defer unlock()
	var out []domain.Account
	for _, acc := range st.accounts {
		if acc.HouseholdID == householdID && (acc.OwnerID == userID || acc.IsShared) {
			out = append(out, acc)
		}
	}
	slices.SortFunc(out, func(a, b domain.Account) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.AccountID, b.AccountID))
	})
	return out, nil
}

func (v *view) SaveAccount(_ context.Context, account domain.Account) error {
	st, unlock := v.lock()
	defer unlock()
	if _, ok := st.accounts[account.AccountID]; ok {
		return apperrors.ErrDuplicate
	}
	st.accounts[account.AccountID] = account
	return nil
}

func (v *view) UpdateAccountBalance(_ context.Context, account domain.Account) error {
	st, unlock := v.lock()
	defer unlock()
	cur, ok := st.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.Balance = account.Balance
	cur.AuditFields = account.AuditFields
	st.accounts[account.AccountID] = cur
	return nil
}

// Cards

func (v *view) FindCardByID(_ context.Context, householdID, cardID string) (*domain.CreditCard, error) {
	st, unlock := v.rlock()
	defer unlock()
	card, ok := st.cards[cardID]
	if !ok || card.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return &card, nil
}

func (v *view) FindCardForUpdate(ctx context.Context, householdID, cardID string) (*domain.CreditCard, error) {
	return v.FindCardByID(ctx, householdID, cardID)
}

func (v *view) ListCardsVisibleTo(_ context.Context, householdID, userID string) ([]domain.CreditCard, error) {
	st, unlock := v.rlock()
	defer unlock()
	var out []domain.CreditCard
	for _, card := range st.cards {
		if card.HouseholdID == householdID && (card.OwnerID == userID || card.IsShared) {
			out = append(out, card)
		}
	}
	slices.SortFunc(out, func(a, b domain.CreditCard) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.CardID, b.CardID))
	})
	return out, nil
}

func (v *view) SaveCard(_ context.Context, card domain.CreditCard) error {
	st, unlock := v.lock()
	defer unlock()
	if _, ok := st.cards[card.CardID]; ok {
		return apperrors.ErrDuplicate
	}
	st.cards[card.CardID] = card
	return nil
}

func (v *view) UpdateCardLimit(_ context.Context, card domain.CreditCard) error {
	st, unlock := v.lock()
	defer unlock()
	cur, ok := st.cards[card.CardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.LimitAvailable = card.LimitAvailable
	cur.AuditFields = card.AuditFields
	st.cards[card.CardID] = cur
	return nil
}

// Invoices

func (v *view) ListInvoicesByCard(_ context.Context, cardID string) ([]domain.Invoice, error) {
	st, unlock := v.rlock()
	defer unlock()
	return st.invoicesOf(cardID), nil
}

func (v *view) ListInvoicesByCardForUpdate(ctx context.Context, cardID string) ([]domain.Invoice, error) {
	return v.ListInvoicesByCard(ctx, cardID)
}

func (s *state) invoicesOf(cardID string) []domain.Invoice {
	var out []domain.Invoice
	for _, inv := range s.invoices {
		if inv.CardID == cardID {
			out = append(out, inv)
		}
	}
	slices.SortFunc(out, func(a, b domain.Invoice) int {
		return b.ReferenceDate.Compare(a.ReferenceDate)
	})
	return out
}

func (v *view) GetOrCreateInvoiceForUpdate(_ context.Context, seed domain.Invoice) (*domain.Invoice, error) {
	st, unlock := v.lock()
	defer unlock()
	for _, inv := range st.invoices {
		if inv.CardID == seed.CardID && inv.ReferenceDate.Equal(seed.ReferenceDate) {
			return &inv, nil
		}
	}
	st.invoices[seed.InvoiceID] = seed
	return &seed, nil
}

func (v *view) FindInvoiceForUpdate(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error) {
	return v.FindInvoiceByID(ctx, householdID, invoiceID)
}

func (v *view) FindInvoiceByID(_ context.Context, householdID, invoiceID string) (*domain.Invoice, error) {
	st, unlock := v.rlock()
	defer unlock()
	inv, ok := st.invoices[invoiceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if card, ok := st.cards[inv.CardID]; !ok || card.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return &inv, nil
}

func (v *view) SumInvoiceTransactions(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	st, unlock := v.rlock()
	defer unlock()
	total := decimal.Zero
	for _, txn := range st.transactions {
		if txn.InvoiceID != nil && *txn.InvoiceID == invoiceID {
			total = total.Add(txn.Value)
		}
	}
	return total, nil
}

func (v *view) UpdateInvoice(_ context.Context, invoice domain.Invoice) error {
	st, unlock := v.lock()
	defer unlock()
	cur, ok := st.invoices[invoice.InvoiceID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.Value = invoice.Value
	cur.AmountPaid = invoice.AmountPaid
	cur.Status = invoice.Status
	cur.AuditFields = invoice.AuditFields
	st.invoices[invoice.InvoiceID] = cur
	return nil
}

// Transactions

func (v *view) SaveTransactions(_ context.Context, txns []domain.Transaction) error {
	st, unlock := v.lock()
	defer unlock()
	for _, txn := range txns {
		if _, ok := st.transactions[txn.TransactionID]; ok {
			return apperrors.ErrDuplicate
		}
	}
	for _, txn := range txns {
		txn.Items = slices.Clone(txn.Items)
		txn.FundingOwnerID, txn.SourceName = "", ""
		st.transactions[txn.TransactionID] = txn
	}
	return nil
}

// funding resolves the owner and display name of a transaction's funding source.
func (s *state) funding(txn domain.Transaction) (string, string) {
	if txn.AccountID != nil {
		if acc, ok := s.accounts[*txn.AccountID]; ok {
			return acc.OwnerID, acc.Name
		}
	}
	if txn.InvoiceID != nil {
		if inv, ok := s.invoices[*txn.InvoiceID]; ok {
			if card, ok := s.cards[inv.CardID]; ok {
				return card.OwnerID, card.Name
			}
		}
	}
	return "", ""
}

func (v *view) ListVisibleTransactions(_ context.Context, q repositories.TransactionQuery) ([]domain.Transaction, error) {
	st, unlock := v.rlock()
	defer unlock()

	viewer := domain.NewViewer(q.ViewerID, st.housemates(q.ViewerID))
	var out []domain.Transaction
	for _, txn := range st.transactions {
		if txn.HouseholdID != q.HouseholdID {
			continue
		}
		owner, source := st.funding(txn)
		if !viewer.CanSee(owner, txn.IsShared) {
			continue
		}
		if q.After != nil && !q.After.Before(txn.Date, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		txn.FundingOwnerID, txn.SourceName = owner, source
		txn.Items = slices.Clone(txn.Items)
		out = append(out, txn)
	}
	slices.SortFunc(out, func(a, b domain.Transaction) int {
		return cmp.Or(
			b.Date.Compare(a.Date),
			b.CreatedAt.Compare(a.CreatedAt),
			strings.Compare(b.TransactionID, a.TransactionID),
		)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (v *view) RecurringBillsPaidIn(_ context.Context, householdID string, month time.Time) (map[string]bool, error) {
	st, unlock := v.rlock()
	defer unlock()
	paid := map[string]bool{}
	for _, txn := range st.transactions {
		if txn.HouseholdID == householdID && txn.RecurringBillID != nil && billing.SameMonth(txn.Date, month) {
			paid[*txn.RecurringBillID] = true
		}
	}
	return paid, nil
}
