package handlers

import (
	"net/http"

	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// categoryHandler handles categories and recurring bills.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
	billService     portssvc.RecurringBillSvcFacade
}

func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade, billService portssvc.RecurringBillSvcFacade) {
	h := &categoryHandler{categoryService: categoryService, billService: billService}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
	}

	bills := rg.Group("/recurring-bills")
	{
		bills.POST("", h.createRecurringBill)
		bills.GET("", h.listRecurringBills)
	}
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 409 {object} dto.ErrorResponse "Category already exists"
// @Failure 500 {object} dto.ErrorResponse "Failed to create category"
// @Security BearerAuth
// @Router /households/{householdID}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categoryService.CreateCategory(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryResponse{CategoryID: cat.CategoryID, Name: cat.Name, Type: cat.Type})
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.CategoryResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list categories"
// @Security BearerAuth
// @Router /households/{householdID}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	categories, err := h.categoryService.ListCategories(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// createRecurringBill godoc
// @Summary Create a recurring bill
// @Tags recurring-bills
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   bill body dto.CreateRecurringBillRequest true "Bill details"
// @Success 201 {object} dto.RecurringBillResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to create recurring bill"
// @Security BearerAuth
// @Router /households/{householdID}/recurring-bills [post]
func (h *categoryHandler) createRecurringBill(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateRecurringBillRequest
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.billService.CreateRecurringBill(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create recurring bill")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringBillResponse(bill))
}

// listRecurringBills godoc
// @Summary List active recurring bills
// @Description Bills ordered by due day, flagged when a linked transaction is dated this month
// @Tags recurring-bills
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.RecurringBillResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list recurring bills"
// @Security BearerAuth
// @Router /households/{householdID}/recurring-bills [get]
func (h *categoryHandler) listRecurringBills(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	bills, err := h.billService.ListRecurringBills(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to list recurring bills")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringBillResponses(bills))
}
