package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// shoppingHandler handles the shopping list.
type shoppingHandler struct {
	shoppingService portssvc.ShoppingSvcFacade
}

func registerShoppingRoutes(rg *gin.RouterGroup, shoppingService portssvc.ShoppingSvcFacade) {
	h := &shoppingHandler{shoppingService: shoppingService}

	list := rg.Group("/shopping-list")
	{
		list.GET("", h.listShoppingNeeds)
		list.POST("", h.addEntry)
		list.POST("/finish", h.finishPurchase)
		list.PATCH("/:entryID", h.updateEntry)
		list.DELETE("/:entryID", h.removeEntry)
	}
}

// listShoppingNeeds godoc
// @Summary Current shopping list
// @Description Reconciles the list with stock below threshold and returns every entry
// @Tags shopping-list
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.ShoppingListEntryResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to load shopping list"
// @Security BearerAuth
// @Router /households/{householdID}/shopping-list [get]
func (h *shoppingHandler) listShoppingNeeds(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	entries, err := h.shoppingService.ListShoppingNeeds(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to load shopping list")
		return
	}
	c.JSON(http.StatusOK, dto.ToShoppingListEntryResponses(entries))
}

// addEntry godoc
// @Summary Add a product to the list
// @Description Adds a manual entry by product id, or by name creating the product
// @Tags shopping-list
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   entry body dto.AddShoppingEntryRequest true "Entry"
// @Success 201 {object} dto.ShoppingListEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to add entry"
// @Security BearerAuth
// @Router /households/{householdID}/shopping-list [post]
func (h *shoppingHandler) addEntry(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.AddShoppingEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.shoppingService.AddEntry(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to add entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToShoppingListEntryResponse(entry))
}

// updateEntry godoc
// @Summary Edit a list entry
// @Tags shopping-list
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateShoppingEntryRequest true "Fields to change"
// @Success 200 {object} dto.ShoppingListEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to update entry"
// @Security BearerAuth
// @Router /households/{householdID}/shopping-list/{entryID} [patch]
func (h *shoppingHandler) updateEntry(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.UpdateShoppingEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.shoppingService.UpdateEntry(c.Request.Context(), householdID, userID, c.Param("entryID"), req)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToShoppingListEntryResponse(entry))
}

// removeEntry godoc
// @Summary Remove a list entry
// @Tags shopping-list
// @Param   householdID path string true "Household ID"
// @Param   entryID path string true "Entry ID"
// @Success 204 "Removed"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to remove entry"
// @Security BearerAuth
// @Router /households/{householdID}/shopping-list/{entryID} [delete]
func (h *shoppingHandler) removeEntry(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	if err := h.shoppingService.RemoveEntry(c.Request.Context(), householdID, userID, c.Param("entryID")); err != nil {
		respondError(c, err, "Failed to remove entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// finishPurchase godoc
// @Summary Check out the purchased entries
// @Description Books one expense for the purchased entries, restocks them and clears them from the list
// @Tags shopping-list
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   checkout body dto.FinishPurchaseRequest true "Payment details"
// @Success 201 {object} dto.FinishPurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or nothing purchased"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Account or card not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds or credit limit"
// @Failure 500 {object} dto.ErrorResponse "Failed to finish purchase"
// @Security BearerAuth
// @Router /households/{householdID}/shopping-list/finish [post]
func (h *shoppingHandler) finishPurchase(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.FinishPurchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	summary, err := h.shoppingService.FinishPurchase(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to finish purchase")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Purchase finished",
		slog.String("transaction_id", summary.Transaction.TransactionID), slog.Int("items", summary.ItemsProcessed))
	c.JSON(http.StatusCreated, dto.FinishPurchaseResponse{
		ItemsProcessed: summary.ItemsProcessed,
		Transaction:    dto.ToTransactionResponse(&summary.Transaction),
	})
}
