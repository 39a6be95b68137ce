package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	store portsrepo.Store
}

// NewCategoryService creates the category service.
func NewCategoryService(store portsrepo.Store, options ...ServiceOption) portssvc.CategorySvcFacade {
	return &categoryService{BaseService: newBaseService(store, options...), store: store}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, householdID, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || !req.Type.Valid() {
		return nil, fmt.Errorf("%w: name and a valid type are required", apperrors.ErrValidation)
	}
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		HouseholdID: householdID,
		Name:        name,
		Type:        req.Type,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.store.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q", apperrors.ErrDuplicate, name)
		}
		return nil, s.storeError(ctx, err, "Failed to save category", slog.String("household_id", householdID))
	}
	return &category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, householdID, userID string) ([]domain.Category, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx, householdID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list categories", slog.String("household_id", householdID))
	}
	return categories, nil
}

type recurringBillService struct {
	BaseService
	store portsrepo.Store
}

// NewRecurringBillService creates the recurring bill service.
func NewRecurringBillService(store portsrepo.Store, options ...ServiceOption) portssvc.RecurringBillSvcFacade {
	return &recurringBillService{BaseService: newBaseService(store, options...), store: store}
}

var _ portssvc.RecurringBillSvcFacade = (*recurringBillService)(nil)

func (s *recurringBillService) CreateRecurringBill(ctx context.Context, householdID, userID string, req dto.CreateRecurringBillRequest) (*domain.RecurringBill, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !domain.ValidDay(req.DueDay) {
		return nil, fmt.Errorf("%w: dueDay must be between 1 and 31", apperrors.ErrValidation)
	}
	value := req.BaseValue.Round(2)
	if value.IsNegative() {
		return nil, fmt.Errorf("%w: baseValue cannot be negative", apperrors.ErrInvalidAmount)
	}
	categoryID := nonEmpty(req.CategoryID)
	if categoryID != nil {
		if _, err := s.store.FindCategoryByID(ctx, householdID, *categoryID); err != nil {
			return nil, s.storeError(ctx, notFoundAs(err, apperrors.ErrNotFound, "category "+*categoryID), "Failed to load category")
		}
	}

	bill := domain.RecurringBill{
		BillID:      uuid.NewString(),
		HouseholdID: householdID,
		Name:        name,
		BaseValue:   value,
		DueDay:      req.DueDay,
		CategoryID:  categoryID,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.store.SaveRecurringBill(ctx, bill); err != nil {
		return nil, s.storeError(ctx, err, "Failed to save recurring bill", slog.String("household_id", householdID))
	}
	return &bill, nil
}

func (s *recurringBillService) ListRecurringBills(ctx context.Context, householdID, userID string) ([]domain.RecurringBill, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	bills, err := s.store.ListActiveRecurringBills(ctx, householdID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to list recurring bills", slog.String("household_id", householdID))
	}
	paid, err := s.store.RecurringBillsPaidIn(ctx, householdID, s.Today())
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to check paid bills", slog.String("household_id", householdID))
	}
	for i := range bills {
		bills[i].IsPaidThisMonth = paid[bills[i].BillID]
	}
	return bills, nil
}
