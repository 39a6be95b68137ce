package repositories

import (
	"context"

	"github.com/domohq/domo_backend/internal/core/domain"
)

// HouseholdReader exposes the membership roster maintained by the membership collaborator.
type HouseholdReader interface {
	// FindMembership returns apperrors.ErrNotFound when the user is not in the household.
	FindMembership(ctx context.Context, householdID, userID string) (*domain.Member, error)

	// ListHousemates returns every user sharing at least one household with userID, userID included.
	ListHousemates(ctx context.Context, userID string) ([]string, error)
}
