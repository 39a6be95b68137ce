package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// RecurringBillRepositoryFacade defines recurring bill persistence.
type RecurringBillRepositoryFacade interface {
	FindRecurringBillByID(ctx context.Context, householdID, billID string) (*domain.RecurringBill, error)
	// ListActiveRecurringBills orders by due day.
	ListActiveRecurringBills(ctx context.Context, householdID string) ([]domain.RecurringBill, error)
	SaveRecurringBill(ctx context.Context, bill domain.RecurringBill) error
}
