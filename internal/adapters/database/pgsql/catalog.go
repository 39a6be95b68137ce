package pgsql

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// Categories

const categoryColumns = `category_id, household_id, name, type, created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row scanner) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.HouseholdID, &c.Name, &c.Type, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func (q *queries) FindCategoryByID(ctx context.Context, householdID, categoryID string) (*domain.Category, error) {
	c, err := scanCategory(q.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE category_id = $1 AND household_id = $2`,
		categoryID, householdID))
	if err != nil {
		return nil, storeErr("find category", err)
	}
	return &c, nil
}

func (q *queries) ListCategories(ctx context.Context, householdID string) ([]domain.Category, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE household_id = $1 ORDER BY type, name`, householdID)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storeErr("scan category", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *queries) SaveCategory(ctx context.Context, c domain.Category) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.CategoryID, c.HouseholdID, c.Name, c.Type, c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return storeErr("save category", err)
	}
	return nil
}

func (q *queries) UpsertCategory(ctx context.Context, seed domain.Category) (*domain.Category, error) {
	_, err := q.db.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (household_id, (lower(name)), type) DO NOTHING`,
		seed.CategoryID, seed.HouseholdID, seed.Name, seed.Type, seed.CreatedAt, seed.CreatedBy, seed.LastUpdatedAt, seed.LastUpdatedBy)
	if err != nil {
		return nil, storeErr("upsert category", err)
	}
	c, err := scanCategory(q.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE household_id = $1 AND lower(name) = lower($2) AND type = $3`,
		seed.HouseholdID, seed.Name, seed.Type))
	if err != nil {
		return nil, storeErr("find upserted category", err)
	}
	return &c, nil
}

// Recurring bills

const billColumns = `bill_id, household_id, name, base_value, due_day, category_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row scanner) (domain.RecurringBill, error) {
	var b domain.RecurringBill
	err := row.Scan(&b.BillID, &b.HouseholdID, &b.Name, &b.BaseValue, &b.DueDay, &b.CategoryID, &b.IsActive,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy)
	return b, err
}

func (q *queries) FindRecurringBillByID(ctx context.Context, householdID, billID string) (*domain.RecurringBill, error) {
	b, err := scanBill(q.db.QueryRow(ctx, `
		SELECT `+billColumns+` FROM recurring_bills WHERE bill_id = $1 AND household_id = $2`, billID, householdID))
	if err != nil {
		return nil, storeErr("find recurring bill", err)
	}
	return &b, nil
}

func (q *queries) ListActiveRecurringBills(ctx context.Context, householdID string) ([]domain.RecurringBill, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+billColumns+` FROM recurring_bills
		WHERE household_id = $1 AND is_active
		ORDER BY due_day, name`, householdID)
	if err != nil {
		return nil, storeErr("list recurring bills", err)
	}
	defer rows.Close()

	var out []domain.RecurringBill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, storeErr("scan recurring bill", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q *queries) SaveRecurringBill(ctx context.Context, b domain.RecurringBill) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO recurring_bills (`+billColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.BillID, b.HouseholdID, b.Name, b.BaseValue, b.DueDay, b.CategoryID, b.IsActive,
		b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy)
	if err != nil {
		return storeErr("save recurring bill", err)
	}
	return nil
}

// Products

const productColumns = `product_id, household_id, name, measure_unit, estimated_price, min_quantity,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row scanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ProductID, &p.HouseholdID, &p.Name, &p.MeasureUnit, &p.EstimatedPrice, &p.MinQuantity,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	return p, err
}

func (q *queries) FindProductByID(ctx context.Context, householdID, productID string) (*domain.Product, error) {
	p, err := scanProduct(q.db.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products WHERE product_id = $1 AND household_id = $2`, productID, householdID))
	if err != nil {
		return nil, storeErr("find product", err)
	}
	return &p, nil
}

func (q *queries) ListProducts(ctx context.Context, householdID string) ([]domain.Product, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+productColumns+` FROM products WHERE household_id = $1 ORDER BY name, product_id`, householdID)
	if err != nil {
		return nil, storeErr("list products", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storeErr("scan product", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *queries) SaveProduct(ctx context.Context, p domain.Product) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ProductID, p.HouseholdID, p.Name, p.MeasureUnit, p.EstimatedPrice, p.MinQuantity,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	if err != nil {
		return storeErr("save product", err)
	}
	return nil
}

func (q *queries) UpsertProductByName(ctx context.Context, seed domain.Product) (*domain.Product, error) {
	_, err := q.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (household_id, (lower(name))) DO NOTHING`,
		seed.ProductID, seed.HouseholdID, seed.Name, seed.MeasureUnit, seed.EstimatedPrice, seed.MinQuantity,
		seed.CreatedAt, seed.CreatedBy, seed.LastUpdatedAt, seed.LastUpdatedBy)
	if err != nil {
		return nil, storeErr("upsert product", err)
	}
	p, err := scanProduct(q.db.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products WHERE household_id = $1 AND lower(name) = lower($2)`,
		seed.HouseholdID, seed.Name))
	if err != nil {
		return nil, storeErr("find upserted product", err)
	}
	return &p, nil
}

func (q *queries) UpdateProductEstimatedPrice(ctx context.Context, p domain.Product) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE products SET estimated_price = $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1`,
		p.ProductID, p.EstimatedPrice, p.LastUpdatedAt, p.LastUpdatedBy)
	return expectOne("update product price", tag, err)
}

// Inventory

const inventorySelect = `
	SELECT s.item_id, s.household_id, s.product_id, s.quantity, s.min_quantity,
		s.created_at, s.created_by, s.last_updated_at, s.last_updated_by, p.name, p.estimated_price
	FROM inventory_items s
	JOIN products p ON p.product_id = s.product_id`

func scanInventory(row scanner) (domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.ItemID, &it.HouseholdID, &it.ProductID, &it.Quantity, &it.MinQuantity,
		&it.CreatedAt, &it.CreatedBy, &it.LastUpdatedAt, &it.LastUpdatedBy, &it.ProductName, &it.EstimatedPrice)
	return it, err
}

func (q *queries) ListInventory(ctx context.Context, householdID string) ([]domain.InventoryItem, error) {
	rows, err := q.db.Query(ctx, inventorySelect+`
		WHERE s.household_id = $1
		ORDER BY p.name, s.product_id`, householdID)
	if err != nil {
		return nil, storeErr("list inventory", err)
	}
	defer rows.Close()

	var out []domain.InventoryItem
	for rows.Next() {
		it, err := scanInventory(rows)
		if err != nil {
			return nil, storeErr("scan inventory", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (q *queries) UpsertInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	_, err := q.db.Exec(ctx, `
		INSERT INTO inventory_items (item_id, household_id, product_id, quantity, min_quantity,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (household_id, product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			min_quantity = EXCLUDED.min_quantity,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		item.ItemID, item.HouseholdID, item.ProductID, item.Quantity, item.MinQuantity,
		item.CreatedAt, item.CreatedBy, item.LastUpdatedAt, item.LastUpdatedBy)
	if err != nil {
		return nil, storeErr("upsert inventory", err)
	}
	out, err := scanInventory(q.db.QueryRow(ctx, inventorySelect+`
		WHERE s.household_id = $1 AND s.product_id = $2`, item.HouseholdID, item.ProductID))
	if err != nil {
		return nil, storeErr("find upserted inventory", err)
	}
	return &out, nil
}

func (q *queries) IncrementInventory(ctx context.Context, seed domain.InventoryItem) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO inventory_items (item_id, household_id, product_id, quantity, min_quantity,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (household_id, product_id) DO UPDATE SET
			quantity = inventory_items.quantity + EXCLUDED.quantity,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		seed.ItemID, seed.HouseholdID, seed.ProductID, seed.Quantity, seed.MinQuantity,
		seed.CreatedAt, seed.CreatedBy, seed.LastUpdatedAt, seed.LastUpdatedBy)
	if err != nil {
		return storeErr("increment inventory", err)
	}
	return nil
}

// Shopping list

const entrySelect = `
	SELECT e.entry_id, e.household_id, e.product_id, e.quantity_to_buy, e.estimated_unit_price,
		e.real_unit_price, e.discount_unit_price, e.is_purchased, e.source,
		e.created_at, e.created_by, e.last_updated_at, e.last_updated_by, p.name
	FROM shopping_list_entries e
	JOIN products p ON p.product_id = e.product_id`

func scanEntry(row scanner) (domain.ShoppingListEntry, error) {
	var e domain.ShoppingListEntry
	err := row.Scan(&e.EntryID, &e.HouseholdID, &e.ProductID, &e.QuantityToBuy, &e.EstimatedUnitPrice,
		&e.RealUnitPrice, &e.DiscountUnitPrice, &e.IsPurchased, &e.Source,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy, &e.ProductName)
	return e, err
}

func (q *queries) listEntries(ctx context.Context, query string, args ...any) ([]domain.ShoppingListEntry, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list shopping entries", err)
	}
	defer rows.Close()

	var out []domain.ShoppingListEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storeErr("scan shopping entry", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *queries) ListShoppingEntries(ctx context.Context, householdID string) ([]domain.ShoppingListEntry, error) {
	return q.listEntries(ctx, entrySelect+`
		WHERE e.household_id = $1
		ORDER BY p.name, e.entry_id`, householdID)
}

func (q *queries) ListPurchasedEntriesForUpdate(ctx context.Context, householdID string) ([]domain.ShoppingListEntry, error) {
	return q.listEntries(ctx, entrySelect+`
		WHERE e.household_id = $1 AND e.is_purchased
		ORDER BY p.name, e.entry_id
		FOR UPDATE OF e`, householdID)
}

func (q *queries) FindShoppingEntryForUpdate(ctx context.Context, householdID, entryID string) (*domain.ShoppingListEntry, error) {
	e, err := scanEntry(q.db.QueryRow(ctx, entrySelect+`
		WHERE e.entry_id = $1 AND e.household_id = $2
		FOR UPDATE OF e`, entryID, householdID))
	if err != nil {
		return nil, storeErr("find shopping entry", err)
	}
	return &e, nil
}

const insertEntry = `
	INSERT INTO shopping_list_entries (entry_id, household_id, product_id, quantity_to_buy, estimated_unit_price,
		real_unit_price, discount_unit_price, is_purchased, source, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func entryArgs(e domain.ShoppingListEntry) []any {
	return []any{e.EntryID, e.HouseholdID, e.ProductID, e.QuantityToBuy, e.EstimatedUnitPrice,
		e.RealUnitPrice, e.DiscountUnitPrice, e.IsPurchased, e.Source,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy}
}

// UpsertDerivedEntry only refreshes rows that are still derived and not yet bought.
func (q *queries) UpsertDerivedEntry(ctx context.Context, seed domain.ShoppingListEntry) error {
	_, err := q.db.Exec(ctx, insertEntry+`
		ON CONFLICT (household_id, product_id) DO UPDATE SET
			quantity_to_buy = EXCLUDED.quantity_to_buy,
			estimated_unit_price = EXCLUDED.estimated_unit_price,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		WHERE NOT shopping_list_entries.is_purchased AND shopping_list_entries.source = 'DERIVED'`,
		entryArgs(seed)...)
	if err != nil {
		return storeErr("upsert derived entry", err)
	}
	return nil
}

func (q *queries) UpsertManualEntry(ctx context.Context, seed domain.ShoppingListEntry) (*domain.ShoppingListEntry, error) {
	_, err := q.db.Exec(ctx, insertEntry+`
		ON CONFLICT (household_id, product_id) DO UPDATE SET
			quantity_to_buy = EXCLUDED.quantity_to_buy,
			source = 'MANUAL',
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		entryArgs(seed)...)
	if err != nil {
		return nil, storeErr("upsert manual entry", err)
	}
	e, err := scanEntry(q.db.QueryRow(ctx, entrySelect+`
		WHERE e.household_id = $1 AND e.product_id = $2`, seed.HouseholdID, seed.ProductID))
	if err != nil {
		return nil, storeErr("find manual entry", err)
	}
	return &e, nil
}

func (q *queries) DeleteStaleDerivedEntries(ctx context.Context, householdID string, keep []string) (int64, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := q.db.Exec(ctx, `
		DELETE FROM shopping_list_entries
		WHERE household_id = $1 AND NOT is_purchased AND source = 'DERIVED'
		  AND NOT (product_id = ANY($2))`, householdID, keep)
	if err != nil {
		return 0, storeErr("delete stale entries", err)
	}
	return tag.RowsAffected(), nil
}

func (q *queries) UpdateShoppingEntry(ctx context.Context, e domain.ShoppingListEntry) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE shopping_list_entries SET
			quantity_to_buy = $2, real_unit_price = $3, discount_unit_price = $4, is_purchased = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1`,
		e.EntryID, e.QuantityToBuy, e.RealUnitPrice, e.DiscountUnitPrice, e.IsPurchased, e.LastUpdatedAt, e.LastUpdatedBy)
	return expectOne("update shopping entry", tag, err)
}

func (q *queries) DeleteShoppingEntry(ctx context.Context, householdID, entryID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM shopping_list_entries WHERE entry_id = $1 AND household_id = $2`, entryID, householdID)
	return expectOne("delete shopping entry", tag, err)
}
