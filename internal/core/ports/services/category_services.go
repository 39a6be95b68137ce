package services

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/dto"
)

// CategorySvcFacade manages categories.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, householdID, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, householdID, userID string) ([]domain.Category, error)
}

// RecurringBillSvcFacade manages recurring bills.
type RecurringBillSvcFacade interface {
	CreateRecurringBill(ctx context.Context, householdID, userID string, req dto.CreateRecurringBillRequest) (*domain.RecurringBill, error)
	// ListRecurringBills flags the bills already paid in the current month.
	ListRecurringBills(ctx context.Context, householdID, userID string) ([]domain.RecurringBill, error)
}
