package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/events"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// shoppingService implements the ShoppingSvcFacade interface
type shoppingService struct {
	BaseService
	store portsrepo.Store

	// one derivation per household at a time; concurrent readers share its result
	derivations singleflight.Group
}

// NewShoppingService creates the replenishment engine.
func NewShoppingService(store portsrepo.Store, options ...ServiceOption) portssvc.ShoppingSvcFacade {
	return &shoppingService{BaseService: newBaseService(store, options...), store: store}
}

var _ portssvc.ShoppingSvcFacade = (*shoppingService)(nil)

func (s *shoppingService) ListShoppingNeeds(ctx context.Context, householdID, userID string) ([]domain.ShoppingListEntry, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	// the flight outlives any single caller; each caller still honours its own ctx
	flightCtx := context.WithoutCancel(ctx)
	ch := s.derivations.DoChan(householdID, func() (any, error) {
		return s.reconcile(flightCtx, householdID, userID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, s.storeError(ctx, res.Err, "Failed to derive shopping list", slog.String("household_id", householdID))
	}
	if res.Shared {
		s.LogDebug(ctx, "Shopping list derivation shared", slog.String("household_id", householdID))
	}
	return slices.Clone(res.Val.([]domain.ShoppingListEntry)), nil
}

// reconcile projects stock shortfall onto the list: every product below threshold gets
// a derived entry, derived entries that are no longer needed are removed.
func (s *shoppingService) reconcile(ctx context.Context, householdID, userID string) ([]domain.ShoppingListEntry, error) {
	now := s.Now()
	var entries []domain.ShoppingListEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		stock, err := tx.ListInventory(ctx, householdID)
		if err != nil {
			return err
		}
		keep := make([]string, 0, len(stock))
		for _, item := range stock {
			if !item.BelowThreshold() {
				continue
			}
			keep = append(keep, item.ProductID)
			err := tx.UpsertDerivedEntry(ctx, domain.ShoppingListEntry{
				EntryID:            uuid.NewString(),
				HouseholdID:        householdID,
				ProductID:          item.ProductID,
				QuantityToBuy:      item.Needed(),
				EstimatedUnitPrice: item.EstimatedPrice,
				RealUnitPrice:      decimal.Zero,
				DiscountUnitPrice:  decimal.Zero,
				Source:             domain.EntryDerived,
				AuditFields:        domain.NewAuditFields(userID, now),
			})
			if err != nil {
				return err
			}
		}
		removed, err := tx.DeleteStaleDerivedEntries(ctx, householdID, keep)
		if err != nil {
			return err
		}
		if removed > 0 {
			s.LogDebug(ctx, "Removed replenished shopping list entries", slog.Int64("count", removed))
		}
		entries, err = tx.ListShoppingEntries(ctx, householdID)
		return err
	})
	return entries, err
}

func (s *shoppingService) AddEntry(ctx context.Context, householdID, userID string, req dto.AddShoppingEntryRequest) (*domain.ShoppingListEntry, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	productID := nonEmpty(req.ProductID)
	name := strings.TrimSpace(req.CreateProductName)
	if productID == nil && name == "" {
		return nil, fmt.Errorf("%w: productID or createProductName is required", apperrors.ErrValidation)
	}
	qty := req.QuantityToBuy.Decimal
	if qty.IsNegative() {
		return nil, fmt.Errorf("%w: quantityToBuy cannot be negative", apperrors.ErrValidation)
	}
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}

	now := s.Now()
	var entry *domain.ShoppingListEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		var product *domain.Product
		var err error
		if productID != nil {
			product, err = tx.FindProductByID(ctx, householdID, *productID)
			if err != nil {
				return notFoundAs(err, apperrors.ErrNotFound, "product "+*productID)
			}
		} else {
			product, err = tx.UpsertProductByName(ctx, domain.Product{
				ProductID:      uuid.NewString(),
				HouseholdID:    householdID,
				Name:           name,
				EstimatedPrice: decimal.Zero,
				MinQuantity:    decimal.Zero,
				AuditFields:    domain.NewAuditFields(userID, now),
			})
			if err != nil {
				return err
			}
		}
		entry, err = tx.UpsertManualEntry(ctx, domain.ShoppingListEntry{
			EntryID:            uuid.NewString(),
			HouseholdID:        householdID,
			ProductID:          product.ProductID,
			QuantityToBuy:      qty,
			EstimatedUnitPrice: product.EstimatedPrice,
			RealUnitPrice:      decimal.Zero,
			DiscountUnitPrice:  decimal.Zero,
			Source:             domain.EntryManual,
			AuditFields:        domain.NewAuditFields(userID, now),
		})
		return err
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to add shopping list entry", slog.String("household_id", householdID))
	}
	return entry, nil
}

func (s *shoppingService) UpdateEntry(ctx context.Context, householdID, userID, entryID string, req dto.UpdateShoppingEntryRequest) (*domain.ShoppingListEntry, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	if req.QuantityToBuy != nil && !req.QuantityToBuy.IsPositive() {
		return nil, fmt.Errorf("%w: quantityToBuy must be greater than zero", apperrors.ErrValidation)
	}
	if (req.RealUnitPrice != nil && req.RealUnitPrice.IsNegative()) ||
		(req.DiscountUnitPrice != nil && req.DiscountUnitPrice.IsNegative()) {
		return nil, fmt.Errorf("%w: prices cannot be negative", apperrors.ErrInvalidAmount)
	}

	var entry *domain.ShoppingListEntry
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		var err error
		entry, err = tx.FindShoppingEntryForUpdate(ctx, householdID, entryID)
		if err != nil {
			return notFoundAs(err, apperrors.ErrNotFound, "shopping list entry "+entryID)
		}
		if req.QuantityToBuy != nil {
			entry.QuantityToBuy = req.QuantityToBuy.Decimal
		}
		if req.RealUnitPrice != nil {
			entry.RealUnitPrice = req.RealUnitPrice.Round(2)
		}
		if req.DiscountUnitPrice != nil {
			entry.DiscountUnitPrice = req.DiscountUnitPrice.Round(2)
		}
		if req.IsPurchased != nil {
			entry.IsPurchased = *req.IsPurchased
		}
		entry.Touch(userID, s.Now())
		return tx.UpdateShoppingEntry(ctx, *entry)
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to update shopping list entry", slog.String("entry_id", entryID))
	}
	return entry, nil
}

func (s *shoppingService) RemoveEntry(ctx context.Context, householdID, userID, entryID string) error {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return err
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		if err := tx.DeleteShoppingEntry(ctx, householdID, entryID); err != nil {
			return notFoundAs(err, apperrors.ErrNotFound, "shopping list entry "+entryID)
		}
		return nil
	})
	return s.storeError(ctx, err, "Failed to remove shopping list entry", slog.String("entry_id", entryID))
}

func (s *shoppingService) FinishPurchase(ctx context.Context, householdID, userID string, req dto.FinishPurchaseRequest) (*domain.PurchaseSummary, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	total := req.TotalValue.Round(2)
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: totalValue must be greater than zero", apperrors.ErrInvalidAmount)
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: paymentMethod must be ACCOUNT or CREDIT_CARD", apperrors.ErrValidation)
	}
	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" {
		return nil, fmt.Errorf("%w: sourceID is required", apperrors.ErrValidation)
	}

	now := s.Now()
	var summary domain.PurchaseSummary
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		entries, err := tx.ListPurchasedEntriesForUpdate(ctx, householdID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return apperrors.ErrEmptyCart
		}

		category, err := tx.UpsertCategory(ctx, domain.Category{
			CategoryID:  uuid.NewString(),
			HouseholdID: householdID,
			Name:        domain.PurchasesCategoryName,
			Type:        domain.Expense,
			AuditFields: domain.NewAuditFields(userID, now),
		})
		if err != nil {
			return err
		}

		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			HouseholdID:   householdID,
			Description:   fmt.Sprintf("%s (%d items)", domain.PurchasesCategoryName, len(entries)),
			Value:         total,
			Type:          domain.Expense,
			PaymentMethod: req.PaymentMethod,
			Date:          date,
			CategoryID:    &category.CategoryID,
			AuditFields:   domain.NewAuditFields(userID, now),
		}

		switch req.PaymentMethod {
		case domain.PayWithAccount:
			acc, err := lockAccount(ctx, tx, householdID, sourceID, userID)
			if err != nil {
				return err
			}
			if err := debitAccount(ctx, tx, acc, total, userID, now); err != nil {
				return err
			}
			txn.AccountID = &acc.AccountID
			txn.IsShared = acc.IsShared
		case domain.PayWithCreditCard:
			card, err := lockCard(ctx, tx, householdID, sourceID, userID)
			if err != nil {
				return err
			}
			booked, err := chargeCard(ctx, tx, card, txn, 1, s.Today())
			if err != nil {
				return err
			}
			txn = booked[0]
		}

		items := make([]domain.TransactionItem, 0, len(entries))
		for i, entry := range entries {
			unitPrice := entry.UnitPrice()
			items = append(items, domain.TransactionItem{
				ItemID:        uuid.NewString(),
				TransactionID: txn.TransactionID,
				Position:      i,
				Description:   entry.ProductName,
				Value:         entry.Subtotal(),
				Quantity:      entry.QuantityToBuy,
			})
			if err := restock(ctx, tx, entry, unitPrice, userID, now); err != nil {
				return err
			}
		}
		txn.Items = items

		if err := tx.SaveTransactions(ctx, []domain.Transaction{txn}); err != nil {
			return err
		}
		summary = domain.PurchaseSummary{Transaction: txn, ItemsProcessed: len(entries)}
		return nil
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to finish purchase", slog.String("household_id", householdID))
	}

	s.LogInfo(ctx, "Shopping list purchase finished",
		slog.String("transaction_id", summary.Transaction.TransactionID),
		slog.Int("items", summary.ItemsProcessed),
		slog.String("total", total.StringFixed(2)))
	s.Publish(ctx, householdID, userID, events.PurchaseFinished, summary)
	return &summary, nil
}

// restock moves one purchased entry into stock and remembers the price paid.
func restock(ctx context.Context, tx portsrepo.Tx, entry domain.ShoppingListEntry, unitPrice decimal.Decimal, userID string, now time.Time) error {
	product, err := tx.FindProductByID(ctx, entry.HouseholdID, entry.ProductID)
	if err != nil {
		return notFoundAs(err, apperrors.ErrNotFound, "product "+entry.ProductID)
	}
	err = tx.IncrementInventory(ctx, domain.InventoryItem{
		ItemID:      uuid.NewString(),
		HouseholdID: entry.HouseholdID,
		ProductID:   entry.ProductID,
		Quantity:    entry.QuantityToBuy,
		MinQuantity: product.MinQuantity,
		AuditFields: domain.NewAuditFields(userID, now),
	})
	if err != nil {
		return err
	}
	product.EstimatedPrice = unitPrice
	product.Touch(userID, now)
	if err := tx.UpdateProductEstimatedPrice(ctx, *product); err != nil {
		return err
	}
	return tx.DeleteShoppingEntry(ctx, entry.HouseholdID, entry.EntryID)
}
