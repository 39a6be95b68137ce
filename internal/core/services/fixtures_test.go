package services_test

import (
	"context"
	"time"

	"github.com/domohq/domo_backend/internal/adapters/database/memory"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/events"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/core/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	houseID  = "house-1"
	otherID  = "house-2"
	ana      = "ana"
	bruno    = "bruno"
	carla    = "carla"
	isoToday = "2024-05-15"
)

// fixedNow is the clock every suite runs on.
var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, evt events.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// ledgerSuite wires every service over a fresh memory store. ana and bruno share
// house-1, carla lives alone in house-2.
type ledgerSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	publisher *MockPublisher
	svc       *portssvc.ServiceContainer
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.store.SeedHousehold(domain.Household{HouseholdID: houseID, Name: "Casa"},
		domain.Member{UserID: ana, Role: domain.RoleMaster},
		domain.Member{UserID: bruno, Role: domain.RoleMember})
	s.store.SeedHousehold(domain.Household{HouseholdID: otherID, Name: "Apto"},
		domain.Member{UserID: carla, Role: domain.RoleMaster})

	s.publisher = new(MockPublisher)
	s.publisher.On("Publish", mock.Anything, mock.AnythingOfType("events.Event")).Return(nil).Maybe()

	s.svc = services.NewServiceContainer(s.store,
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithEventPublisher(s.publisher))
}

func amt(v string) money.Amount {
	return money.NewAmount(decimal.RequireFromString(v))
}

func amtPtr(v string) *money.Amount {
	a := amt(v)
	return &a
}

func ptr[T any](v T) *T { return &v }

func (s *ledgerSuite) dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *ledgerSuite) equalDec(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	s.T().Helper()
	s.Truef(s.dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual.StringFixed(2), msgAndArgs)
}

func (s *ledgerSuite) newAccount(owner, balance, limit string, shared bool) *domain.Account {
	s.T().Helper()
	acc, err := s.svc.Funding.CreateAccount(s.ctx, houseID, owner, dto.CreateAccountRequest{
		Name: "Conta " + owner, Balance: amt(balance), Limit: amt(limit), IsShared: shared,
	})
	s.Require().NoError(err)
	return acc
}

func (s *ledgerSuite) newCard(owner, limit string, closingDay, dueDay int, shared bool) *domain.CreditCard {
	s.T().Helper()
	card, err := s.svc.Funding.CreateCreditCard(s.ctx, houseID, owner, dto.CreateCreditCardRequest{
		Name: "Cartao " + owner, LimitTotal: amt(limit), ClosingDay: closingDay, DueDay: dueDay, IsShared: shared,
	})
	s.Require().NoError(err)
	return card
}

func (s *ledgerSuite) cardCharge(user, cardID, value, date string, installments int) ([]domain.Transaction, error) {
	return s.svc.Transaction.CreateTransaction(s.ctx, houseID, user, dto.CreateTransactionRequest{
		Description:   "Compra",
		Value:         amt(value),
		Type:          domain.Expense,
		Date:          date,
		PaymentMethod: domain.PayWithCreditCard,
		CardID:        &cardID,
		Installments:  installments,
	})
}

func (s *ledgerSuite) accountCharge(user, accountID, value, date string) ([]domain.Transaction, error) {
	return s.svc.Transaction.CreateTransaction(s.ctx, houseID, user, dto.CreateTransactionRequest{
		Description:   "Mercado",
		Value:         amt(value),
		Type:          domain.Expense,
		Date:          date,
		PaymentMethod: domain.PayWithAccount,
		AccountID:     &accountID,
	})
}

func (s *ledgerSuite) account(id string) domain.Account {
	s.T().Helper()
	acc, err := s.store.FindAccountByID(s.ctx, houseID, id)
	s.Require().NoError(err)
	return *acc
}

func (s *ledgerSuite) card(id string) domain.CreditCard {
	s.T().Helper()
	card, err := s.store.FindCardByID(s.ctx, houseID, id)
	s.Require().NoError(err)
	return *card
}

func (s *ledgerSuite) invoices(cardID string) []domain.Invoice {
	s.T().Helper()
	invs, err := s.store.ListInvoicesByCard(s.ctx, cardID)
	s.Require().NoError(err)
	return invs
}

func (s *ledgerSuite) visibleTo(user string) []domain.Transaction {
	s.T().Helper()
	txns, _, err := s.svc.Transaction.ListVisibleTransactions(s.ctx, houseID, user, 200, "")
	s.Require().NoError(err)
	return txns
}

func day(v string) time.Time {
	t, err := time.Parse(dto.DateLayout, v)
	if err != nil {
		panic(err)
	}
	return t
}
