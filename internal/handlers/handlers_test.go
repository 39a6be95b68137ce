package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/handlers"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret  = "test-secret-key-that-is-long-enough"
	testIssuer  = "domo-auth"
	householdID = "house-1"
	userID      = "ana"
)

type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	transaction *MockTransactionService
	invoice     *MockInvoiceService
	funding     *MockFundingService
	category    *MockCategoryService
	bills       *MockRecurringBillService
	catalog     *MockCatalogService
	shopping    *MockShoppingService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(handlers.RegisterValidators())
}

func (s *HandlerTestSuite) SetupTest() {
	s.transaction = new(MockTransactionService)
	s.invoice = new(MockInvoiceService)
	s.funding = new(MockFundingService)
	s.category = new(MockCategoryService)
	s.bills = new(MockRecurringBillService)
	s.catalog = new(MockCatalogService)
	s.shopping = new(MockShoppingService)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	v1 := s.router.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	handlers.RegisterHouseholdRoutes(v1, &portssvc.ServiceContainer{
		Transaction:   s.transaction,
		Invoice:       s.invoice,
		Funding:       s.funding,
		Category:      s.category,
		RecurringBill: s.bills,
		Catalog:       s.catalog,
		Shopping:      s.shopping,
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.transaction.AssertExpectations(s.T())
	s.invoice.AssertExpectations(s.T())
	s.shopping.AssertExpectations(s.T())
}

// token signs a JWT the way the external auth layer does.
func (s *HandlerTestSuite) token(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	s.Require().NoError(err)
	return signed
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, fmt.Sprintf("/api/v1/households/%s%s", householdID, path), reader)
	req.Header.Set("Authorization", "Bearer "+s.token(userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var res dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	return res.Error
}

func sampleTxn(id string, value int64) domain.Transaction {
	accountID := "acc-1"
	return domain.Transaction{
		TransactionID: id, HouseholdID: householdID, Description: "Mercado",
		Value: decimal.NewFromInt(value), Type: domain.Expense, PaymentMethod: domain.PayWithAccount,
		Date: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), AccountID: &accountID,
	}
}

func (s *HandlerTestSuite) TestMissingTokenIsRejected() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/households/house-1/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.funding.AssertNotCalled(s.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestWrongIssuerIsRejected() {
	claims := jwt.RegisteredClaims{Issuer: "someone-else", Subject: userID, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/households/house-1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestCreateTransaction_LenientAmountAndInstallments() {
	booked := []domain.Transaction{sampleTxn("t1", 34), sampleTxn("t2", 33), sampleTxn("t3", 33)}
	s.transaction.On("CreateTransaction", mock.Anything, householdID, userID,
		mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
			return req.Value.Equal(decimal.RequireFromString("1234.56")) && req.Installments == 3
		}),
	).Return(booked, nil).Once()

	w := s.do(http.MethodPost, "/transactions", `{
		"description": "Sofa", "value": "R$ 1.234,56", "type": "EXPENSE", "date": "2024-05-15",
		"paymentMethod": "CREDIT_CARD", "cardID": "card-1", "installments": 3
	}`)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.CreateTransactionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("t1", res.Transaction.TransactionID)
	s.Len(res.Installments, 3)
	s.Equal("2024-05-15", res.Transaction.Date)
}

func (s *HandlerTestSuite) TestCreateTransaction_BindingRules() {
	tests := []struct {
		name string
		body string
	}{
		{"malformed date", `{"description":"x","value":10,"type":"EXPENSE","date":"15/05/2024","paymentMethod":"ACCOUNT","accountID":"a"}`},
		{"unknown payment method", `{"description":"x","value":10,"type":"EXPENSE","date":"2024-05-15","paymentMethod":"PIX","accountID":"a"}`},
		{"unknown type", `{"description":"x","value":10,"type":"TRANSFER","date":"2024-05-15"}`},
		{"missing description", `{"value":10,"type":"INCOME","date":"2024-05-15","accountID":"a"}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/transactions", tt.body)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
	s.transaction.AssertNotCalled(s.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestCreateTransaction_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", fmt.Errorf("%w: value must be greater than zero", apperrors.ErrInvalidAmount), http.StatusBadRequest, ""},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, ""},
		{"not found", apperrors.ErrAccountNotFound, http.StatusNotFound, ""},
		{"insufficient funds", fmt.Errorf("%w: account a", apperrors.ErrInsufficientFunds), http.StatusUnprocessableEntity, ""},
		{"insufficient limit", apperrors.ErrInsufficientCreditLimit, http.StatusUnprocessableEntity, ""},
		{"internal", apperrors.Internal("failed to save", errors.New("connection refused by 10.0.0.7")), http.StatusInternalServerError, "Failed to create transaction"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.transaction.On("CreateTransaction", mock.Anything, householdID, userID, mock.Anything).Return(nil, tt.err).Once()

			w := s.do(http.MethodPost, "/transactions", `{"description":"x","value":10,"type":"EXPENSE","date":"2024-05-15","paymentMethod":"ACCOUNT","accountID":"a"}`)

			s.Equal(tt.status, w.Code)
			if tt.body != "" {
				s.Equal(tt.body, s.errorBody(w))
			} else {
				s.Equal(tt.err.Error(), s.errorBody(w))
			}
		})
	}
}

func (s *HandlerTestSuite) TestListTransactions_DefaultsAndToken() {
	s.transaction.On("ListVisibleTransactions", mock.Anything, householdID, userID, 50, "").
		Return([]domain.Transaction{sampleTxn("t1", 10)}, "next-page", nil).Once()
	s.transaction.On("ListVisibleTransactions", mock.Anything, householdID, userID, 2, "next-page").
		Return([]domain.Transaction{}, "", nil).Once()

	w := s.do(http.MethodGet, "/transactions", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListTransactionsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	s.Len(page.Transactions, 1)
	s.Equal("next-page", page.NextToken)

	w = s.do(http.MethodGet, "/transactions?limit=2&nextToken=next-page", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/transactions?limit=500", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestPayInvoice() {
	inv := &domain.Invoice{
		InvoiceID: "inv-1", CardID: "card-1", ReferenceDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), Value: decimal.NewFromInt(300),
		AmountPaid: decimal.NewFromInt(100), Status: domain.InvoiceOpen,
	}
	txn := sampleTxn("pay-1", 100)
	s.invoice.On("PayInvoice", mock.Anything, householdID, userID, "inv-1",
		mock.MatchedBy(func(req dto.PayInvoiceRequest) bool {
			return req.AccountID == "acc-1" && req.Amount.Equal(decimal.NewFromInt(100))
		}),
	).Return(inv, &txn, nil).Once()

	w := s.do(http.MethodPost, "/invoices/inv-1/pay", map[string]any{"accountID": "acc-1", "amount": 100, "date": "2024-06-10"})

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.PayInvoiceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.True(decimal.NewFromInt(200).Equal(res.Invoice.Outstanding.Decimal))
	s.Equal("pay-1", res.Transaction.TransactionID)
}

func (s *HandlerTestSuite) TestCurrentInvoice_NoStatementIsNoContent() {
	s.invoice.On("CurrentInvoice", mock.Anything, householdID, userID, "card-1").Return(nil, nil).Once()

	w := s.do(http.MethodGet, "/credit-cards/card-1/invoices/current", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerTestSuite) TestListCreditCardsCarriesCurrentInvoice() {
	cards := []domain.CardSummary{{
		Card:           domain.CreditCard{CardID: "card-1", Name: "Cartao", LimitTotal: decimal.NewFromInt(1000), LimitAvailable: decimal.NewFromInt(700), ClosingDay: 10, DueDay: 28},
		CurrentInvoice: &domain.Invoice{InvoiceID: "inv-1", CardID: "card-1", Value: decimal.NewFromInt(300), Status: domain.InvoiceOpen},
	}}
	s.funding.On("ListCreditCards", mock.Anything, householdID, userID).Return(cards, nil).Once()

	w := s.do(http.MethodGet, "/credit-cards", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var res []dto.CreditCardResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Require().Len(res, 1)
	s.Require().NotNil(res[0].CurrentInvoice)
	s.Equal("inv-1", res[0].CurrentInvoice.InvoiceID)
	s.Equal("700.00", res[0].LimitAvailable.StringFixed(2))
}

func (s *HandlerTestSuite) TestShoppingRoutes() {
	entry := &domain.ShoppingListEntry{
		EntryID: "e1", ProductID: "p1", ProductName: "Arroz", QuantityToBuy: decimal.NewFromInt(2),
		EstimatedUnitPrice: decimal.NewFromInt(5), Source: domain.EntryManual,
	}
	s.shopping.On("AddEntry", mock.Anything, householdID, userID,
		mock.MatchedBy(func(req dto.AddShoppingEntryRequest) bool { return req.CreateProductName == "Arroz" }),
	).Return(entry, nil).Once()
	s.shopping.On("RemoveEntry", mock.Anything, householdID, userID, "e1").Return(nil).Once()
	s.shopping.On("RemoveEntry", mock.Anything, householdID, userID, "e1").Return(apperrors.ErrNotFound).Once()

	w := s.do(http.MethodPost, "/shopping-list", map[string]any{"createProductName": "Arroz", "quantityToBuy": 2})
	s.Require().Equal(http.StatusCreated, w.Code)
	var res dto.ShoppingListEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("10.00", res.Subtotal.StringFixed(2))

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/shopping-list/e1", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/shopping-list/e1", nil).Code)
}

func (s *HandlerTestSuite) TestFinishPurchase() {
	summary := &domain.PurchaseSummary{Transaction: sampleTxn("t-buy", 40), ItemsProcessed: 2}
	s.shopping.On("FinishPurchase", mock.Anything, householdID, userID,
		mock.MatchedBy(func(req dto.FinishPurchaseRequest) bool {
			return req.PaymentMethod == domain.PayWithAccount && req.TotalValue.Equal(decimal.NewFromInt(40))
		}),
	).Return(summary, nil).Once()
	s.shopping.On("FinishPurchase", mock.Anything, householdID, userID, mock.Anything).Return(nil, apperrors.ErrEmptyCart).Once()

	body := map[string]any{"paymentMethod": "ACCOUNT", "sourceID": "acc-1", "totalValue": "40,00", "date": "2024-05-15"}
	w := s.do(http.MethodPost, "/shopping-list/finish", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.FinishPurchaseResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal(2, res.ItemsProcessed)

	w = s.do(http.MethodPost, "/shopping-list/finish", body)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/shopping-list/finish", map[string]any{"paymentMethod": "CASH", "sourceID": "x", "totalValue": 1, "date": "2024-05-15"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestDuplicateCategoryIsConflict() {
	s.category.On("CreateCategory", mock.Anything, householdID, userID, dto.CreateCategoryRequest{Name: "Mercado", Type: domain.Expense}).
		Return(nil, fmt.Errorf("%w: category Mercado", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/categories", map[string]any{"name": "Mercado", "type": "EXPENSE"})
	s.Equal(http.StatusConflict, w.Code)
	s.category.AssertExpectations(s.T())
}
