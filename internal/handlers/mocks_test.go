package handlers_test

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, householdID, userID string, req dto.CreateTransactionRequest) ([]domain.Transaction, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListVisibleTransactions(ctx context.Context, householdID, userID string, limit int, nextToken string) ([]domain.Transaction, string, error) {
	args := m.Called(ctx, householdID, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.String(1), args.Error(2)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) PayInvoice(ctx context.Context, householdID, userID, invoiceID string, req dto.PayInvoiceRequest) (*domain.Invoice, *domain.Transaction, error) {
	args := m.Called(ctx, householdID, userID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockInvoiceService) CurrentInvoice(ctx context.Context, householdID, userID, cardID string) (*domain.Invoice, error) {
	args := m.Called(ctx, householdID, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, householdID, userID, cardID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, householdID, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock FundingService ---
type MockFundingService struct {
	mock.Mock
}

func (m *MockFundingService) CreateAccount(ctx context.Context, householdID, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockFundingService) ListAccounts(ctx context.Context, householdID, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockFundingService) CreateCreditCard(ctx context.Context, householdID, userID string, req dto.CreateCreditCardRequest) (*domain.CreditCard, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCard), args.Error(1)
}

func (m *MockFundingService) ListCreditCards(ctx context.Context, householdID, userID string) ([]domain.CardSummary, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardSummary), args.Error(1)
}

var _ portssvc.FundingSvcFacade = (*MockFundingService)(nil)

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, householdID, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) ListCategories(ctx context.Context, householdID, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

var _ portssvc.CategorySvcFacade = (*MockCategoryService)(nil)

// --- Mock RecurringBillService ---
type MockRecurringBillService struct {
	mock.Mock
}

func (m *MockRecurringBillService) CreateRecurringBill(ctx context.Context, householdID, userID string, req dto.CreateRecurringBillRequest) (*domain.RecurringBill, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringBill), args.Error(1)
}

func (m *MockRecurringBillService) ListRecurringBills(ctx context.Context, householdID, userID string) ([]domain.RecurringBill, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringBill), args.Error(1)
}

var _ portssvc.RecurringBillSvcFacade = (*MockRecurringBillService)(nil)

// --- Mock CatalogService ---
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, householdID, userID string, req dto.CreateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogService) ListProducts(ctx context.Context, householdID, userID string) ([]domain.Product, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogService) SetInventory(ctx context.Context, householdID, userID, productID string, req dto.SetInventoryRequest) (*domain.InventoryItem, error) {
	args := m.Called(ctx, householdID, userID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockCatalogService) ListInventory(ctx context.Context, householdID, userID string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

var _ portssvc.CatalogSvcFacade = (*MockCatalogService)(nil)

// --- Mock ShoppingService ---
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) ListShoppingNeeds(ctx context.Context, householdID, userID string) ([]domain.ShoppingListEntry, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShoppingListEntry), args.Error(1)
}

func (m *MockShoppingService) AddEntry(ctx context.Context, householdID, userID string, req dto.AddShoppingEntryRequest) (*domain.ShoppingListEntry, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShoppingListEntry), args.Error(1)
}

func (m *MockShoppingService) UpdateEntry(ctx context.Context, householdID, userID, entryID string, req dto.UpdateShoppingEntryRequest) (*domain.ShoppingListEntry, error) {
	args := m.Called(ctx, householdID, userID, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShoppingListEntry), args.Error(1)
}

func (m *MockShoppingService) RemoveEntry(ctx context.Context, householdID, userID, entryID string) error {
	return m.Called(ctx, householdID, userID, entryID).Error(0)
}

func (m *MockShoppingService) FinishPurchase(ctx context.Context, householdID, userID string, req dto.FinishPurchaseRequest) (*domain.PurchaseSummary, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseSummary), args.Error(1)
}

var _ portssvc.ShoppingSvcFacade = (*MockShoppingService)(nil)
