package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := &transactionHandler{transactionService: transactionService}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
	}
}

// createTransaction godoc
// @Summary Book a transaction
// @Description Books an income or expense against an account, or an expense on a credit card split in installments.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Account, card, category or bill not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds or credit limit"
// @Failure 500 {object} dto.ErrorResponse "Failed to create transaction"
// @Security BearerAuth
// @Router /households/{householdID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	booked, err := h.transactionService.CreateTransaction(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	res := dto.CreateTransactionResponse{Transaction: dto.ToTransactionResponse(&booked[0])}
	if len(booked) > 1 {
		res.Installments = dto.ToTransactionResponses(booked)
	}
	middleware.GetLoggerFromContext(c).Info("Transaction created",
		slog.String("transaction_id", booked[0].TransactionID), slog.Int("installments", len(booked)))
	c.JSON(http.StatusCreated, res)
}

// listTransactions godoc
// @Summary List visible transactions
// @Description Lists the transactions the caller may see, newest first, with cursor pagination.
// @Tags transactions
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /households/{householdID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txns, next, err := h.transactionService.ListVisibleTransactions(c.Request.Context(), householdID, userID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns), NextToken: next})
}
