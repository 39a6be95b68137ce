package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to card statements.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	rg.POST("/invoices/:invoiceID/pay", h.payInvoice)

	cardInvoices := rg.Group("/credit-cards/:cardID/invoices")
	{
		cardInvoices.GET("", h.listInvoices)
		cardInvoices.GET("/current", h.currentInvoice)
	}
}

// payInvoice godoc
// @Summary Pay a card statement
// @Description Debits the account, credits the statement and restores the card limit in one unit of work.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   invoiceID path string true "Invoice ID"
// @Param   payment body dto.PayInvoiceRequest true "Payment details"
// @Success 200 {object} dto.PayInvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Invoice or account not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 500 {object} dto.ErrorResponse "Failed to pay invoice"
// @Security BearerAuth
// @Router /households/{householdID}/invoices/{invoiceID}/pay [post]
func (h *invoiceHandler) payInvoice(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.PayInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoiceID := c.Param("invoiceID")

	inv, txn, err := h.invoiceService.PayInvoice(c.Request.Context(), householdID, userID, invoiceID, req)
	if err != nil {
		respondError(c, err, "Failed to pay invoice")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Invoice paid",
		slog.String("invoice_id", invoiceID), slog.String("status", string(inv.Status)))
	c.JSON(http.StatusOK, dto.PayInvoiceResponse{
		Invoice:     dto.ToInvoiceResponse(inv),
		Transaction: dto.ToTransactionResponse(txn),
	})
}

// listInvoices godoc
// @Summary List the statements of a card
// @Tags invoices
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   cardID path string true "Credit card ID"
// @Success 200 {array} dto.InvoiceResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list invoices"
// @Security BearerAuth
// @Router /households/{householdID}/credit-cards/{cardID}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), householdID, userID, c.Param("cardID"))
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponses(invoices))
}

// currentInvoice godoc
// @Summary Current statement of a card
// @Description Closes elapsed statements, reconciles values and returns the oldest unpaid statement (or the latest one).
// @Tags invoices
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   cardID path string true "Credit card ID"
// @Success 200 {object} dto.InvoiceResponse
// @Success 204 "Card has no statements yet"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to load current invoice"
// @Security BearerAuth
// @Router /households/{householdID}/credit-cards/{cardID}/invoices/current [get]
func (h *invoiceHandler) currentInvoice(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.CurrentInvoice(c.Request.Context(), householdID, userID, c.Param("cardID"))
	if err != nil {
		respondError(c, err, "Failed to load current invoice")
		return
	}
	if inv == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}
