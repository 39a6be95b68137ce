package dto

import "github.com/domohq/domo_backend/internal/core/domain"

// CreateCategoryRequest defines a new category.
type CreateCategoryRequest struct {
	Name string                 `json:"name" binding:"required,max=50"`
	Type domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string                 `json:"categoryID"`
	Name       string                 `json:"name"`
	Type       domain.TransactionType `json:"type"`
}

// ToCategoryResponses converts categories.
func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = CategoryResponse{CategoryID: c.CategoryID, Name: c.Name, Type: c.Type}
	}
	return res
}
