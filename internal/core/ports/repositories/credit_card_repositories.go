package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// CreditCardReader defines read operations for cards
type CreditCardReader interface {
	FindCardByID(ctx context.Context, householdID, cardID string) (*domain.CreditCard, error)
	ListCardsVisibleTo(ctx context.Context, householdID, userID string) ([]domain.CreditCard, error)
}

// CreditCardWriter defines write operations for cards
type CreditCardWriter interface {
	SaveCard(ctx context.Context, card domain.CreditCard) error
}

// CreditCardTransactionSupport defines locking operations for cards
type CreditCardTransactionSupport interface {
	FindCardForUpdate(ctx context.Context, householdID, cardID string) (*domain.CreditCard, error)
	UpdateCardLimit(ctx context.Context, card domain.CreditCard) error
}

// CreditCardRepositoryFacade combines card read and write interfaces.
type CreditCardRepositoryFacade interface {
	CreditCardReader
	CreditCardWriter
}
