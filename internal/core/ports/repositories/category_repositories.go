package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// CategoryRepositoryFacade defines category persistence.
type CategoryRepositoryFacade interface {
	FindCategoryByID(ctx context.Context, householdID, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, householdID string) ([]domain.Category, error)
	// SaveCategory returns apperrors.ErrDuplicate when (household, name, type) exists.
	SaveCategory(ctx context.Context, category domain.Category) error
}

// CategoryTransactionSupport defines idempotent category creation.
type CategoryTransactionSupport interface {
	// UpsertCategory returns the existing category for (household, name, type) or inserts seed.
	UpsertCategory(ctx context.Context, seed domain.Category) (*domain.Category, error)
}
