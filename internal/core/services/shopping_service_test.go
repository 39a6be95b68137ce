package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/domohq/domo_backend/internal/adapters/database/memory"
	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/events"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/core/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ShoppingServiceTestSuite struct {
	ledgerSuite
	rice *domain.Product
}

func TestShoppingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShoppingServiceTestSuite))
}

func (s *ShoppingServiceTestSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	product, err := s.svc.Catalog.CreateProduct(s.ctx, houseID, ana, dto.CreateProductRequest{
		Name: "Arroz", MeasureUnit: "kg", EstimatedPrice: amt("5"), MinQuantity: amt("5"),
	})
	s.Require().NoError(err)
	s.rice = product
}

func (s *ShoppingServiceTestSuite) stock(product *domain.Product, qty string) {
	s.T().Helper()
	_, err := s.svc.Catalog.SetInventory(s.ctx, houseID, ana, product.ProductID, dto.SetInventoryRequest{Quantity: amt(qty)})
	s.Require().NoError(err)
}

func (s *ShoppingServiceTestSuite) needs() []domain.ShoppingListEntry {
	s.T().Helper()
	entries, err := s.svc.Shopping.ListShoppingNeeds(s.ctx, houseID, ana)
	s.Require().NoError(err)
	return entries
}

func (s *ShoppingServiceTestSuite) quantityOf(productID string) string {
	s.T().Helper()
	items, err := s.svc.Catalog.ListInventory(s.ctx, houseID, ana)
	s.Require().NoError(err)
	for _, it := range items {
		if it.ProductID == productID {
			return it.Quantity.String()
		}
	}
	return ""
}

func (s *ShoppingServiceTestSuite) markPurchased(entryID, realPrice string) {
	s.T().Helper()
	_, err := s.svc.Shopping.UpdateEntry(s.ctx, houseID, ana, entryID, dto.UpdateShoppingEntryRequest{
		IsPurchased: ptr(true), RealUnitPrice: amtPtr(realPrice),
	})
	s.Require().NoError(err)
}

func (s *ShoppingServiceTestSuite) TestShortfallProducesOneEntry() {
	s.stock(s.rice, "2")

	entries := s.needs()
	s.Require().Len(entries, 1)
	s.Equal(s.rice.ProductID, entries[0].ProductID)
	s.Equal("Arroz", entries[0].ProductName)
	s.Equal(domain.EntryDerived, entries[0].Source)
	s.equalDec("3", entries[0].QuantityToBuy)
	s.equalDec("5", entries[0].EstimatedUnitPrice)

	again := s.needs()
	s.Require().Len(again, 1)
	s.Equal(entries[0].EntryID, again[0].EntryID)

	// a smaller gap still asks for at least one unit
	s.stock(s.rice, "4.5")
	refreshed := s.needs()
	s.Require().Len(refreshed, 1)
	s.equalDec("1", refreshed[0].QuantityToBuy)
}

func (s *ShoppingServiceTestSuite) TestRestockRemovesDerivedEntry() {
	s.stock(s.rice, "2")
	s.Require().Len(s.needs(), 1)

	s.stock(s.rice, "6")
	s.Empty(s.needs())
}

func (s *ShoppingServiceTestSuite) TestConcurrentReadsDeriveOnce() {
	s.stock(s.rice, "1")

	var wg sync.WaitGroup
	results := make([][]domain.ShoppingListEntry, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries, err := s.svc.Shopping.ListShoppingNeeds(s.ctx, houseID, bruno)
			if err == nil {
				results[i] = entries
			}
		}(i)
	}
	wg.Wait()

	for _, entries := range results {
		s.Require().Len(entries, 1)
	}
	s.Len(s.needs(), 1)
}

func (s *ShoppingServiceTestSuite) TestManualEntriesSurviveReconciliation() {
	s.stock(s.rice, "10")

	entry, err := s.svc.Shopping.AddEntry(s.ctx, houseID, ana, dto.AddShoppingEntryRequest{CreateProductName: "Detergente"})
	s.Require().NoError(err)
	s.Equal(domain.EntryManual, entry.Source)
	s.equalDec("1", entry.QuantityToBuy)
	s.Equal("Detergente", entry.ProductName)

	entries := s.needs()
	s.Require().Len(entries, 1)
	s.Equal(entry.EntryID, entries[0].EntryID)

	// adding the same name again reuses the product and the entry
	again, err := s.svc.Shopping.AddEntry(s.ctx, houseID, ana, dto.AddShoppingEntryRequest{CreateProductName: "detergente", QuantityToBuy: amt("3")})
	s.Require().NoError(err)
	s.Equal(entry.EntryID, again.EntryID)
	s.equalDec("3", again.QuantityToBuy)

	s.Require().NoError(s.svc.Shopping.RemoveEntry(s.ctx, houseID, ana, entry.EntryID))
	s.Empty(s.needs())
	s.ErrorIs(s.svc.Shopping.RemoveEntry(s.ctx, houseID, ana, entry.EntryID), apperrors.ErrNotFound)
}

func (s *ShoppingServiceTestSuite) TestAddEntryValidation() {
	_, err := s.svc.Shopping.AddEntry(s.ctx, houseID, ana, dto.AddShoppingEntryRequest{})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Shopping.AddEntry(s.ctx, houseID, ana, dto.AddShoppingEntryRequest{ProductID: ptr("missing")})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ShoppingServiceTestSuite) TestUpdateEntryValidation() {
	s.stock(s.rice, "2")
	entry := s.needs()[0]

	_, err := s.svc.Shopping.UpdateEntry(s.ctx, houseID, ana, entry.EntryID, dto.UpdateShoppingEntryRequest{QuantityToBuy: amtPtr("0")})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Shopping.UpdateEntry(s.ctx, houseID, ana, entry.EntryID, dto.UpdateShoppingEntryRequest{DiscountUnitPrice: amtPtr("-1")})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.svc.Shopping.UpdateEntry(s.ctx, houseID, ana, "missing", dto.UpdateShoppingEntryRequest{IsPurchased: ptr(true)})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ShoppingServiceTestSuite) TestPurchasedEntryIsNotRefreshed() {
	s.stock(s.rice, "2")
	entry := s.needs()[0]
	_, err := s.svc.Shopping.UpdateEntry(s.ctx, houseID, ana, entry.EntryID, dto.UpdateShoppingEntryRequest{
		IsPurchased: ptr(true), QuantityToBuy: amtPtr("10"),
	})
	s.Require().NoError(err)

	entries := s.needs()
	s.Require().Len(entries, 1)
	s.True(entries[0].IsPurchased)
	s.equalDec("10", entries[0].QuantityToBuy)
}

func (s *ShoppingServiceTestSuite) TestFinishPurchaseWithAccount() {
	acc := s.newAccount(ana, "100", "0", false)
	s.stock(s.rice, "2")
	s.markPurchased(s.needs()[0].EntryID, "4.50")

	summary, err := s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithAccount, SourceID: acc.AccountID, TotalValue: amt("13.50"), Date: "2024-05-15",
	})
	s.Require().NoError(err)
	s.Equal(1, summary.ItemsProcessed)

	txn := summary.Transaction
	s.equalDec("13.50", txn.Value)
	s.Equal(domain.Expense, txn.Type)
	s.Require().Len(txn.Items, 1)
	s.Equal("Arroz", txn.Items[0].Description)
	s.equalDec("13.50", txn.Items[0].Value)
	s.equalDec("3", txn.Items[0].Quantity)
	s.Require().NotNil(txn.CategoryID)

	categories, err := s.svc.Category.ListCategories(s.ctx, houseID, ana)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal(domain.PurchasesCategoryName, categories[0].Name)
	s.Equal(*txn.CategoryID, categories[0].CategoryID)

	s.equalDec("86.50", s.account(acc.AccountID).Balance)
	s.Equal("5", s.quantityOf(s.rice.ProductID))
	products, err := s.svc.Catalog.ListProducts(s.ctx, houseID, ana)
	s.Require().NoError(err)
	s.equalDec("4.50", products[0].EstimatedPrice)
	s.Empty(s.needs())

	s.publisher.AssertCalled(s.T(), "Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.PurchaseFinished
	}))

	// the cart is empty now, and inventory was incremented exactly once
	_, err = s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithAccount, SourceID: acc.AccountID, TotalValue: amt("13.50"), Date: "2024-05-15",
	})
	s.ErrorIs(err, apperrors.ErrEmptyCart)
	s.Equal("5", s.quantityOf(s.rice.ProductID))
	s.equalDec("86.50", s.account(acc.AccountID).Balance)
}

func (s *ShoppingServiceTestSuite) TestFinishPurchaseCreatesMissingStock() {
	acc := s.newAccount(ana, "100", "0", false)
	entry, err := s.svc.Shopping.AddEntry(s.ctx, houseID, ana, dto.AddShoppingEntryRequest{CreateProductName: "Cafe", QuantityToBuy: amt("2")})
	s.Require().NoError(err)
	s.markPurchased(entry.EntryID, "12")

	_, err = s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithAccount, SourceID: acc.AccountID, TotalValue: amt("24"), Date: "2024-05-15",
	})
	s.Require().NoError(err)
	s.Equal("2", s.quantityOf(entry.ProductID))
}

func (s *ShoppingServiceTestSuite) TestFinishPurchaseOnCard() {
	card := s.newCard(ana, "1000", 10, 20, false)
	s.stock(s.rice, "2")
	s.markPurchased(s.needs()[0].EntryID, "4")

	summary, err := s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithCreditCard, SourceID: card.CardID, TotalValue: amt("12"), Date: "2024-05-15",
	})
	s.Require().NoError(err)
	s.Require().NotNil(summary.Transaction.InvoiceID)
	s.Equal(domain.PayWithCreditCard, summary.Transaction.PaymentMethod)
	s.Len(summary.Transaction.Items, 1)

	invs := s.invoices(card.CardID)
	s.Require().Len(invs, 1)
	s.Equal(day("2024-06-01"), invs[0].ReferenceDate)
	s.equalDec("12", invs[0].Value)
	s.equalDec("988", s.card(card.CardID).LimitAvailable)
}

func (s *ShoppingServiceTestSuite) TestFinishPurchaseFailureKeepsCart() {
	card := s.newCard(ana, "5", 10, 20, false)
	s.stock(s.rice, "2")
	s.markPurchased(s.needs()[0].EntryID, "4")

	_, err := s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithCreditCard, SourceID: card.CardID, TotalValue: amt("12"), Date: "2024-05-15",
	})
	s.ErrorIs(err, apperrors.ErrInsufficientCreditLimit)

	entries := s.needs()
	s.Require().Len(entries, 1)
	s.True(entries[0].IsPurchased)
	s.Equal("2", s.quantityOf(s.rice.ProductID))
	s.Empty(s.invoices(card.CardID))
	categories, err := s.svc.Category.ListCategories(s.ctx, houseID, ana)
	s.Require().NoError(err)
	s.Empty(categories)
}

func (s *ShoppingServiceTestSuite) TestFinishPurchaseValidation() {
	acc := s.newAccount(ana, "100", "0", false)

	_, err := s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithAccount, SourceID: acc.AccountID, TotalValue: amt("0"), Date: "2024-05-15",
	})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: "PIX", SourceID: acc.AccountID, TotalValue: amt("1"), Date: "2024-05-15",
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Shopping.FinishPurchase(s.ctx, houseID, ana, dto.FinishPurchaseRequest{
		PaymentMethod: domain.PayWithAccount, SourceID: acc.AccountID, TotalValue: amt("1"), Date: "2024-05-15",
	})
	s.ErrorIs(err, apperrors.ErrEmptyCart)

	_, err = s.svc.Shopping.ListShoppingNeeds(s.ctx, houseID, carla)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// gatedStore parks the first unit of work until release is closed.
type gatedStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Store.WithinTx(ctx, fn)
}

func (s *ShoppingServiceTestSuite) TestSharedDerivationIgnoresLeaderCancellation() {
	s.stock(s.rice, "1")
	gated := &gatedStore{Store: s.store, entered: make(chan struct{}), release: make(chan struct{})}
	shopping := services.NewShoppingService(gated, services.WithClock(func() time.Time { return fixedNow }))

	leaderCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	leaderErr := make(chan error, 1)
	go func() {
		_, err := shopping.ListShoppingNeeds(leaderCtx, houseID, ana)
		leaderErr <- err
	}()
	<-gated.entered

	type outcome struct {
		entries []domain.ShoppingListEntry
		err     error
	}
	follower := make(chan outcome, 1)
	go func() {
		entries, err := shopping.ListShoppingNeeds(context.Background(), houseID, bruno)
		follower <- outcome{entries, err}
	}()
	// let the follower join the flight that is parked in WithinTx
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-leaderErr:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		s.FailNow("cancelled caller did not return")
	}

	close(gated.release)
	select {
	case got := <-follower:
		s.Require().NoError(got.err)
		s.Require().Len(got.entries, 1)
		s.equalDec("4", got.entries[0].QuantityToBuy)
	case <-time.After(2 * time.Second):
		s.FailNow("follower did not return")
	}
}
