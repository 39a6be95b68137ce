package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/utils/billing"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Households

func (q *queries) FindMembership(ctx context.Context, householdID, userID string) (*domain.Member, error) {
	var m domain.Member
	err := q.db.QueryRow(ctx, `
		SELECT household_id, user_id, role, joined_at
		FROM household_members
		WHERE household_id = $1 AND user_id = $2`,
		householdID, userID,
	).Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		return nil, storeErr("find membership", err)
	}
	return &m, nil
}

func (q *queries) ListHousemates(ctx context.Context, userID string) ([]string, error) {
	rows, err := q.db.Query(ctx, `
		SELECT DISTINCT other.user_id
		FROM household_members me
		JOIN household_members other ON other.household_id = me.household_id
		WHERE me.user_id = $1`, userID)
	if err != nil {
		return nil, storeErr("list housemates", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr("scan housemates", err)
	}
	return ids, nil
}

// Accounts

const accountColumns = `account_id, household_id, owner_id, name, balance, overdraft_limit, is_shared,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.AccountID, &a.HouseholdID, &a.OwnerID, &a.Name, &a.Balance, &a.Limit, &a.IsShared,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	return a, err
}

func (q *queries) findAccount(ctx context.Context, householdID, accountID string, lock bool) (*domain.Account, error) {
	query := forUpdate(`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 AND household_id = $2`, lock)
	a, err := scanAccount(q.db.QueryRow(ctx, query, accountID, householdID))
	if err != nil {
		return nil, storeErr("find account", err)
	}
	return &a, nil
}

func (q *queries) FindAccountByID(ctx context.Context, householdID, accountID string) (*domain.Account, error) {
	return q.findAccount(ctx, householdID, accountID, false)
}

func (q *queries) FindAccountForUpdate(ctx context.Context, householdID, accountID string) (*domain.Account, error) {
	return q.findAccount(ctx, householdID, accountID, true)
}

func (q *queries) ListAccountsVisibleTo(ctx context.Context, householdID, userID string) ([]domain.Account, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE household_id = $1 AND (owner_id = $2 OR is_shared)
		ORDER BY name, account_id`, householdID, userID)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, storeErr("scan account", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (q *queries) SaveAccount(ctx context.Context, a domain.Account) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.AccountID, a.HouseholdID, a.OwnerID, a.Name, a.Balance, a.Limit, a.IsShared,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return storeErr("save account", err)
	}
	return nil
}

func (q *queries) UpdateAccountBalance(ctx context.Context, a domain.Account) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE accounts SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1`,
		a.AccountID, a.Balance, a.LastUpdatedAt, a.LastUpdatedBy)
	return expectOne("update account balance", tag, err)
}

// Credit cards

const cardColumns = `card_id, household_id, owner_id, name, limit_total, limit_available, closing_day, due_day,
	is_shared, created_at, created_by, last_updated_at, last_updated_by`

func scanCard(row scanner) (domain.CreditCard, error) {
	var c domain.CreditCard
	err := row.Scan(&c.CardID, &c.HouseholdID, &c.OwnerID, &c.Name, &c.LimitTotal, &c.LimitAvailable,
		&c.ClosingDay, &c.DueDay, &c.IsShared, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func (q *queries) findCard(ctx context.Context, householdID, cardID string, lock bool) (*domain.CreditCard, error) {
	query := forUpdate(`SELECT `+cardColumns+` FROM credit_cards WHERE card_id = $1 AND household_id = $2`, lock)
	c, err := scanCard(q.db.QueryRow(ctx, query, cardID, householdID))
	if err != nil {
		return nil, storeErr("find credit card", err)
	}
	return &c, nil
}

func (q *queries) FindCardByID(ctx context.Context, householdID, cardID string) (*domain.CreditCard, error) {
	return q.findCard(ctx, householdID, cardID, false)
}

func (q *queries) FindCardForUpdate(ctx context.Context, householdID, cardID string) (*domain.CreditCard, error) {
	return q.findCard(ctx, householdID, cardID, true)
}

func (q *queries) ListCardsVisibleTo(ctx context.Context, householdID, userID string) ([]domain.CreditCard, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM credit_cards
		WHERE household_id = $1 AND (owner_id = $2 OR is_shared)
		ORDER BY name, card_id`, householdID, userID)
	if err != nil {
		return nil, storeErr("list credit cards", err)
	}
	defer rows.Close()

	var out []domain.CreditCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, storeErr("scan credit card", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *queries) SaveCard(ctx context.Context, c domain.CreditCard) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO credit_cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.CardID, c.HouseholdID, c.OwnerID, c.Name, c.LimitTotal, c.LimitAvailable, c.ClosingDay, c.DueDay,
		c.IsShared, c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return storeErr("save credit card", err)
	}
	return nil
}

func (q *queries) UpdateCardLimit(ctx context.Context, c domain.CreditCard) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE credit_cards SET limit_available = $2, last_updated_at = $3, last_updated_by = $4
		WHERE card_id = $1`,
		c.CardID, c.LimitAvailable, c.LastUpdatedAt, c.LastUpdatedBy)
	return expectOne("update card limit", tag, err)
}

// Invoices

const invoiceColumns = `i.invoice_id, i.card_id, i.reference_date, i.due_date, i.value, i.amount_paid, i.status,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by`

func scanInvoice(row scanner) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.InvoiceID, &inv.CardID, &inv.ReferenceDate, &inv.DueDate, &inv.Value, &inv.AmountPaid,
		&inv.Status, &inv.CreatedAt, &inv.CreatedBy, &inv.LastUpdatedAt, &inv.LastUpdatedBy)
	return inv, err
}

func (q *queries) findInvoice(ctx context.Context, householdID, invoiceID string, lock bool) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN credit_cards c ON c.card_id = i.card_id
		WHERE i.invoice_id = $1 AND c.household_id = $2`
	if lock {
		query += " FOR UPDATE OF i"
	}
	inv, err := scanInvoice(q.db.QueryRow(ctx, query, invoiceID, householdID))
	if err != nil {
		return nil, storeErr("find invoice", err)
	}
	return &inv, nil
}

func (q *queries) FindInvoiceByID(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error) {
	return q.findInvoice(ctx, householdID, invoiceID, false)
}

func (q *queries) FindInvoiceForUpdate(ctx context.Context, householdID, invoiceID string) (*domain.Invoice, error) {
	return q.findInvoice(ctx, householdID, invoiceID, true)
}

func (q *queries) listInvoices(ctx context.Context, cardID string, lock bool) ([]domain.Invoice, error) {
	query := forUpdate(`
		SELECT `+invoiceColumns+`
		FROM invoices i
		WHERE i.card_id = $1
		ORDER BY i.reference_date DESC`, lock)
	rows, err := q.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, storeErr("list invoices", err)
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, storeErr("scan invoice", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (q *queries) ListInvoicesByCard(ctx context.Context, cardID string) ([]domain.Invoice, error) {
	return q.listInvoices(ctx, cardID, false)
}

func (q *queries) ListInvoicesByCardForUpdate(ctx context.Context, cardID string) ([]domain.Invoice, error) {
	return q.listInvoices(ctx, cardID, true)
}

// GetOrCreateInvoiceForUpdate relies on the (card_id, reference_date) unique key: the
// losing inserter of a race blocks on the winner and then locks the winner's row.
func (q *queries) GetOrCreateInvoiceForUpdate(ctx context.Context, seed domain.Invoice) (*domain.Invoice, error) {
	_, err := q.db.Exec(ctx, `
		INSERT INTO invoices (invoice_id, card_id, reference_date, due_date, value, amount_paid, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (card_id, reference_date) DO NOTHING`,
		seed.InvoiceID, seed.CardID, seed.ReferenceDate, seed.DueDate, seed.Value, seed.AmountPaid, seed.Status,
		seed.CreatedAt, seed.CreatedBy, seed.LastUpdatedAt, seed.LastUpdatedBy)
	if err != nil {
		return nil, storeErr("create invoice", err)
	}

	inv, err := scanInvoice(q.db.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices i
		WHERE i.card_id = $1 AND i.reference_date = $2
		FOR UPDATE`, seed.CardID, seed.ReferenceDate))
	if err != nil {
		return nil, storeErr("lock invoice", err)
	}
	return &inv, nil
}

func (q *queries) SumInvoiceTransactions(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.db.QueryRow(ctx, `SELECT COALESCE(SUM(value), 0) FROM transactions WHERE invoice_id = $1`, invoiceID).Scan(&total)
	if err != nil {
		return decimal.Zero, storeErr("sum invoice transactions", err)
	}
	return total, nil
}

func (q *queries) UpdateInvoice(ctx context.Context, inv domain.Invoice) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE invoices SET value = $2, amount_paid = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1`,
		inv.InvoiceID, inv.Value, inv.AmountPaid, inv.Status, inv.LastUpdatedAt, inv.LastUpdatedBy)
	return expectOne("update invoice", tag, err)
}

// Transactions

// SaveTransactions queues every row in one pgx.Batch round trip.
func (q *queries) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range txns {
		batch.Queue(`
			INSERT INTO transactions (transaction_id, household_id, description, value, type, payment_method,
				transaction_date, category_id, account_id, invoice_id, recurring_bill_id, is_shared,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			t.TransactionID, t.HouseholdID, t.Description, t.Value, t.Type, t.PaymentMethod,
			t.Date, t.CategoryID, t.AccountID, t.InvoiceID, t.RecurringBillID, t.IsShared,
			t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy)
		for _, it := range t.Items {
			batch.Queue(`
				INSERT INTO transaction_items (item_id, transaction_id, position, description, value, quantity)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				it.ItemID, t.TransactionID, it.Position, it.Description, it.Value, it.Quantity)
		}
	}

	br := q.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return storeErr(fmt.Sprintf("save transactions (statement %d)", i), err)
		}
	}
	if err := br.Close(); err != nil {
		return storeErr("close transaction batch", err)
	}
	return nil
}

// ListVisibleTransactions resolves each row's funding owner through the account or the
// invoice's card and keeps rows whose owner is the viewer, or shared rows whose owner
// co-resides with the viewer in any household.
func (q *queries) ListVisibleTransactions(ctx context.Context, tq repositories.TransactionQuery) ([]domain.Transaction, error) {
	query := `
		WITH funded AS (
			SELECT t.*, COALESCE(a.owner_id, c.owner_id) AS funding_owner, COALESCE(a.name, c.name, '') AS source_name
			FROM transactions t
			LEFT JOIN accounts a ON a.account_id = t.account_id
			LEFT JOIN invoices i ON i.invoice_id = t.invoice_id
			LEFT JOIN credit_cards c ON c.card_id = i.card_id
			WHERE t.household_id = $1
		), housemates AS (
			SELECT other.user_id
			FROM household_members me
			JOIN household_members other ON other.household_id = me.household_id
			WHERE me.user_id = $2
		)
		SELECT f.transaction_id, f.household_id, f.description, f.value, f.type, f.payment_method,
			f.transaction_date, f.category_id, f.account_id, f.invoice_id, f.recurring_bill_id, f.is_shared,
			f.created_at, f.created_by, f.last_updated_at, f.last_updated_by, f.funding_owner, f.source_name
		FROM funded f
		WHERE f.funding_owner IS NOT NULL
		  AND (f.funding_owner = $2 OR (f.is_shared AND f.funding_owner IN (SELECT user_id FROM housemates)))`
	args := []any{tq.HouseholdID, tq.ViewerID}
	if tq.After != nil {
		query += `
		  AND (f.transaction_date, f.created_at, f.transaction_id) < ($3, $4, $5)`
		args = append(args, tq.After.Date, tq.After.CreatedAt, tq.After.ID)
	}
	query += `
		ORDER BY f.transaction_date DESC, f.created_at DESC, f.transaction_id DESC`
	if tq.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, tq.Limit)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	var (
		out   []domain.Transaction
		ids   []string
		index = map[string]int{}
	)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.TransactionID, &t.HouseholdID, &t.Description, &t.Value, &t.Type, &t.PaymentMethod,
			&t.Date, &t.CategoryID, &t.AccountID, &t.InvoiceID, &t.RecurringBillID, &t.IsShared,
			&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy, &t.FundingOwnerID, &t.SourceName); err != nil {
			return nil, storeErr("scan transaction", err)
		}
		index[t.TransactionID] = len(out)
		ids = append(ids, t.TransactionID)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate transactions", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return out, nil
	}
	itemRows, err := q.db.Query(ctx, `
		SELECT item_id, transaction_id, position, description, value, quantity
		FROM transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position`, ids)
	if err != nil {
		return nil, storeErr("list transaction items", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it domain.TransactionItem
		if err := itemRows.Scan(&it.ItemID, &it.TransactionID, &it.Position, &it.Description, &it.Value, &it.Quantity); err != nil {
			return nil, storeErr("scan transaction item", err)
		}
		i := index[it.TransactionID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, itemRows.Err()
}

func (q *queries) RecurringBillsPaidIn(ctx context.Context, householdID string, month time.Time) (map[string]bool, error) {
	from := billing.FirstOfMonth(month)
	rows, err := q.db.Query(ctx, `
		SELECT DISTINCT recurring_bill_id
		FROM transactions
		WHERE household_id = $1 AND recurring_bill_id IS NOT NULL
		  AND transaction_date >= $2 AND transaction_date < $3`,
		householdID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, storeErr("list paid recurring bills", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr("scan paid recurring bills", err)
	}
	paid := make(map[string]bool, len(ids))
	for _, id := range ids {
		paid[id] = true
	}
	return paid, nil
}
