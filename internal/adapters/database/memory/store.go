// Package memory is an in-process implementation of the repository ports. Units of
// work are serialized and applied copy-on-write, so readers only ever observe
// committed state.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/repositories"
)

type state struct {
	members      map[string]map[string]domain.Member // household -> user
	households   map[string]domain.Household
	accounts     map[string]domain.Account
	cards        map[string]domain.CreditCard
	invoices     map[string]domain.Invoice
	transactions map[string]domain.Transaction
	categories   map[string]domain.Category
	bills        map[string]domain.RecurringBill
	products     map[string]domain.Product
	inventory    map[string]domain.InventoryItem
	entries      map[string]domain.ShoppingListEntry
}

func newState() *state {
	return &state{
		members:      map[string]map[string]domain.Member{},
		households:   map[string]domain.Household{},
		accounts:     map[string]domain.Account{},
		cards:        map[string]domain.CreditCard{},
		invoices:     map[string]domain.Invoice{},
		transactions: map[string]domain.Transaction{},
		categories:   map[string]domain.Category{},
		bills:        map[string]domain.RecurringBill{},
		products:     map[string]domain.Product{},
		inventory:    map[string]domain.InventoryItem{},
		entries:      map[string]domain.ShoppingListEntry{},
	}
}

// clone copies every table. Entities hold only values and immutable references,
// so a shallow copy of each map is a full snapshot.
func (s *state) clone() *state {
	members := make(map[string]map[string]domain.Member, len(s.members))
	for hh, m := range s.members {
		members[hh] = maps.Clone(m)
	}
	return &state{
		members:      members,
		households:   maps.Clone(s.households),
		accounts:     maps.Clone(s.accounts),
		cards:        maps.Clone(s.cards),
		invoices:     maps.Clone(s.invoices),
		transactions: maps.Clone(s.transactions),
		categories:   maps.Clone(s.categories),
		bills:        maps.Clone(s.bills),
		products:     maps.Clone(s.products),
		inventory:    maps.Clone(s.inventory),
		entries:      maps.Clone(s.entries),
	}
}

// view runs repository methods against a state. The live view locks the store;
// a view handed to a unit of work runs under the writer lock already held.
type view struct {
	store *Store
	st    *state
}

func (v *view) rlock() (*state, func()) {
	if v.store == nil {
		return v.st, func() {}
	}
	v.store.mu.RLock()
	return v.store.st, v.store.mu.RUnlock
}

func (v *view) lock() (*state, func()) {
	if v.store == nil {
		return v.st, func() {}
	}
	v.store.mu.Lock()
	return v.store.st, v.store.mu.Unlock
}

// Store is the in-memory repository.
type Store struct {
	*view
	mu sync.RWMutex
	st *state
}

var _ repositories.Store = (*Store)(nil)
var _ repositories.Tx = (*view)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{st: newState()}
	s.view = &view{store: s}
	return s
}

// WithinTx implements repositories.TransactionManager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, &view{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// SeedHousehold registers a household and its members. Membership is administered
// outside the ledger, so this is how the memory backend and tests get their tenants.
func (s *Store) SeedHousehold(h domain.Household, members ...domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.households[h.HouseholdID] = h
	roster, ok := s.st.members[h.HouseholdID]
	if !ok {
		roster = map[string]domain.Member{}
		s.st.members[h.HouseholdID] = roster
	}
	for _, m := range members {
		m.HouseholdID = h.HouseholdID
		roster[m.UserID] = m
	}
}
