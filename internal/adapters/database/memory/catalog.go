package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
)

// Categories

func (v *view) FindCategoryByID(_ context.Context, householdID, categoryID string) (*domain.Category, error) {
	st, unlock := v.rlock()
	defer unlock()
	c, ok := st.categories[categoryID]
	if !ok || c.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (v *view) ListCategories(_ context.Context, householdID string) ([]domain.Category, error) {
	st, unlock := v.rlock()
	defer unlock()
	var out []domain.Category
	for _, c := range st.categories {
		if c.HouseholdID == householdID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Category) int {
		return cmp.Or(strings.Compare(string(a.Type), string(b.Type)), strings.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (s *state) categoryNamed(householdID, name string, typ domain.TransactionType) (domain.Category, bool) {
	for _, c := range s.categories {
		if c.HouseholdID == householdID && c.Type == typ && strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (v *view) SaveCategory(_ context.Context, category domain.Category) error {
	st, unlock := v.lock()
	defer unlock()
	if _, ok := st.categoryNamed(category.HouseholdID, category.Name, category.Type); ok {
		return apperrors.ErrDuplicate
	}
	st.categories[category.CategoryID] = category
	return nil
}

func (v *view) UpsertCategory(_ context.Context, seed domain.Category) (*domain.Category, error) {
	st, unlock := v.lock()
	defer unlock()
	if c, ok := st.categoryNamed(seed.HouseholdID, seed.Name, seed.Type); ok {
		return &c, nil
	}
	st.categories[seed.CategoryID] = seed
	return &seed, nil
}

// Recurring bills

func (v *view) FindRecurringBillByID(_ context.Context, householdID, billID string) (*domain.RecurringBill, error) {
	st, unlock := v.rlock()
	defer unlock()
	b, ok := st.bills[billID]
	if !ok || b.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (v *view) ListActiveRecurringBills(_ context.Context, householdID string) ([]domain.RecurringBill, error) {
	st, unlock := v.rlock()
	defer unlock()
	var out []domain.RecurringBill
	for _, b := range st.bills {
		if b.HouseholdID == householdID && b.IsActive {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b domain.RecurringBill) int {
		return cmp.Or(cmp.Compare(a.DueDay, b.DueDay), strings.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (v *view) SaveRecurringBill(_ context.Context, bill domain.RecurringBill) error {
	st, unlock := v.lock()
	defer unlock()
	if _, ok := st.bills[bill.BillID]; ok {
		return apperrors.ErrDuplicate
	}
	st.bills[bill.BillID] = bill
	return nil
}

// Products and stock

func (v *view) FindProductByID(_ context.Context, householdID, productID string) (*domain.Product, error) {
	st, unlock := v.rlock()
	defer unlock()
	p, ok := st.products[productID]
	if !ok || p.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (v *view) ListProducts(_ context.Context, householdID string) ([]domain.Product, error) {
	st, unlock := v.rlock()
	defer unlock()
	var out []domain.Product
	for _, p := range st.products {
		if p.HouseholdID == householdID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Product) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *state) productNamed(householdID, name string) (domain.Product, bool) {
	for _, p := range s.products {
		if p.HouseholdID == householdID && strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (v *view) SaveProduct(_ context.Context, product domain.Product) error {
	st, unlock := v.lock()
	defer unlock()
	if _, ok := st.productNamed(product.HouseholdID, product.Name); ok {
		return apperrors.ErrDuplicate
	}
	st.products[product.ProductID] = product
	return nil
}

func (v *view) UpsertProductByName(_ context.Context, seed domain.Product) (*domain.Product, error) {
	st, unlock := v.lock()
	defer unlock()
	if p, ok := st.productNamed(seed.HouseholdID, seed.Name); ok {
		return &p, nil
	}
	st.products[seed.ProductID] = seed
	return &seed, nil
}

func (v *view) UpdateProductEstimatedPrice(_ context.Context, product domain.Product) error {
	st, unlock := v.lock()
	defer unlock()
	cur, ok := st.products[product.ProductID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.EstimatedPrice = product.EstimatedPrice
	cur.AuditFields = product.AuditFields
	st.products[product.ProductID] = cur
	return nil
}

func (s *state) withProduct(item domain.InventoryItem) domain.InventoryItem {
	if p, ok := s.products[item.ProductID]; ok {
		item.ProductName = p.Name
		item.EstimatedPrice = p.EstimatedPrice
	}
	return item
}

func (s *state) stockOf(householdID, productID string) (domain.InventoryItem, bool) {
	for _, it := range s.inventory {
		if it.HouseholdID == householdID && it.ProductID == productID {
			return it, true
		}
	}
	return domain.InventoryItem{}, false
}

func (v *view) ListInventory(_ context.Context, householdID string) ([]domain.InventoryItem, error) {
	st, unlock := v.rlock()
	defer unlock()
	var out []domain.InventoryItem
	for _, it := range st.inventory {
		if it.HouseholdID == householdID {
			out = append(out, st.withProduct(it))
		}
	}
	slices.SortFunc(out, func(a, b domain.InventoryItem) int {
		return cmp.Or(strings.Compare(a.ProductName, b.ProductName), strings.Compare(a.ProductID, b.ProductID))
	})
	return out, nil
}

func (v *view) UpsertInventoryItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	st, unlock := v.lock()
	defer unlock()
	if cur, ok := st.stockOf(item.HouseholdID, item.ProductID); ok {
		cur.Quantity = item.Quantity
		cur.MinQuantity = item.MinQuantity
		cur.LastUpdatedAt, cur.LastUpdatedBy = item.LastUpdatedAt, item.LastUpdatedBy
		item = cur
	}
	st.inventory[item.ItemID] = item
	out := st.withProduct(item)
	return &out, nil
}

func (v *view) IncrementInventory(_ context.Context, seed domain.InventoryItem) error {
	st, unlock := v.lock()
	defer unlock()
	if cur, ok := st.stockOf(seed.HouseholdID, seed.ProductID); ok {
		cur.Quantity = cur.Quantity.Add(seed.Quantity)
		cur.LastUpdatedAt, cur.LastUpdatedBy = seed.LastUpdatedAt, seed.LastUpdatedBy
		st.inventory[cur.ItemID] = cur
		return nil
	}
	st.inventory[seed.ItemID] = seed
	return nil
}

// Shopping list

func (s *state) withProductName(e domain.ShoppingListEntry) domain.ShoppingListEntry {
	if p, ok := s.products[e.ProductID]; ok {
		e.ProductName = p.Name
	}
	return e
}

func (s *state) entryOf(householdID, productID string) (domain.ShoppingListEntry, bool) {
	for _, e := range s.entries {
		if e.HouseholdID == householdID && e.ProductID == productID {
			return e, true
		}
	}
	return domain.ShoppingListEntry{}, false
}

func (s *state) listEntries(householdID string, keep func(domain.ShoppingListEntry) bool) []domain.ShoppingListEntry {
	var out []domain.ShoppingListEntry
	for _, e := range s.entries {
		if e.HouseholdID == householdID && keep(e) {
			out = append(out, s.withProductName(e))
		}
	}
	slices.SortFunc(out, func(a, b domain.ShoppingListEntry) int {
		return cmp.Or(strings.Compare(a.ProductName, b.ProductName), strings.Compare(a.EntryID, b.EntryID))
	})
	return out
}

func (v *view) ListShoppingEntries(_ context.Context, householdID string) ([]domain.ShoppingListEntry, error) {
	st, unlock := v.rlock()
	defer unlock()
	return st.listEntries(householdID, func(domain.ShoppingListEntry) bool { return true }), nil
}

func (v *view) ListPurchasedEntriesForUpdate(_ context.Context, householdID string) ([]domain.ShoppingListEntry, error) {
	st, unlock := v.rlock()
	defer unlock()
	return st.listEntries(householdID, func(e domain.ShoppingListEntry) bool { return e.IsPurchased }), nil
}

func (v *view) UpsertDerivedEntry(_ context.Context, seed domain.ShoppingListEntry) error {
	st, unlock := v.lock()
	defer unlock()
	cur, ok := st.entryOf(seed.HouseholdID, seed.ProductID)
	if !ok {
		st.entries[seed.EntryID] = seed
		return nil
	}
	if cur.IsPurchased || cur.Source != domain.EntryDerived {
		return nil
	}
	cur.QuantityToBuy = seed.QuantityToBuy
	cur.EstimatedUnitPrice = seed.EstimatedUnitPrice
	cur.LastUpdatedAt, cur.LastUpdatedBy = seed.LastUpdatedAt, seed.LastUpdatedBy
	st.entries[cur.EntryID] = cur
	return nil
}

func (v *view) UpsertManualEntry(_ context.Context, seed domain.ShoppingListEntry) (*domain.ShoppingListEntry, error) {
	st, unlock := v.lock()
	defer unlock()
	entry := seed
	if cur, ok := st.entryOf(seed.HouseholdID, seed.ProductID); ok {
		cur.QuantityToBuy = seed.QuantityToBuy
		cur.Source = domain.EntryManual
		cur.LastUpdatedAt, cur.LastUpdatedBy = seed.LastUpdatedAt, seed.LastUpdatedBy
		entry = cur
	}
	st.entries[entry.EntryID] = entry
	out := st.withProductName(entry)
	return &out, nil
}

func (v *view) DeleteStaleDerivedEntries(_ context.Context, householdID string, keep []string) (int64, error) {
	st, unlock := v.lock()
	defer unlock()
	var n int64
	for id, e := range st.entries {
		if e.HouseholdID != householdID || e.IsPurchased || e.Source != domain.EntryDerived {
			continue
		}
		if slices.Contains(keep, e.ProductID) {
			continue
		}
		delete(st.entries, id)
		n++
	}
	return n, nil
}

func (v *view) FindShoppingEntryForUpdate(_ context.Context, householdID, entryID string) (*domain.ShoppingListEntry, error) {
	st, unlock := v.rlock()
	defer unlock()
	e, ok := st.entries[entryID]
	if !ok || e.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	out := st.withProductName(e)
	return &out, nil
}

func (v *view) UpdateShoppingEntry(_ context.Context, entry domain.ShoppingListEntry) error {
	st, unlock := v.lock()
	defer unlock()
	cur, ok := st.entries[entry.EntryID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.QuantityToBuy = entry.QuantityToBuy
	cur.RealUnitPrice = entry.RealUnitPrice
	cur.DiscountUnitPrice = entry.DiscountUnitPrice
	cur.IsPurchased = entry.IsPurchased
	cur.AuditFields = entry.AuditFields
	st.entries[entry.EntryID] = cur
	return nil
}

func (v *view) DeleteShoppingEntry(_ context.Context, householdID, entryID string) error {
	st, unlock := v.lock()
	defer unlock()
	e, ok := st.entries[entryID]
	if !ok || e.HouseholdID != householdID {
		return apperrors.ErrNotFound
	}
	delete(st.entries, entryID)
	return nil
}
