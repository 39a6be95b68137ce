package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fundingHandler handles HTTP requests related to accounts and credit cards.
type fundingHandler struct {
	fundingService portssvc.FundingSvcFacade
}

func registerFundingRoutes(rg *gin.RouterGroup, fundingService portssvc.FundingSvcFacade) {
	h := &fundingHandler{fundingService: fundingService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
	}

	cards := rg.Group("/credit-cards")
	{
		cards.POST("", h.createCreditCard)
		cards.GET("", h.listCreditCards)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account owned by the caller
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /households/{householdID}/accounts [post]
func (h *fundingHandler) createAccount(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	acc, err := h.fundingService.CreateAccount(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Account created successfully", slog.String("account_id", acc.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(acc))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the caller's accounts and the shared accounts of the household
// @Tags accounts
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /households/{householdID}/accounts [get]
func (h *fundingHandler) listAccounts(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	accounts, err := h.fundingService.ListAccounts(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// createCreditCard godoc
// @Summary Register a credit card
// @Tags credit-cards
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   card body dto.CreateCreditCardRequest true "Card details"
// @Success 201 {object} dto.CreditCardResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to create credit card"
// @Security BearerAuth
// @Router /households/{householdID}/credit-cards [post]
func (h *fundingHandler) createCreditCard(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateCreditCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.fundingService.CreateCreditCard(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create credit card")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Credit card created successfully", slog.String("card_id", card.CardID))
	c.JSON(http.StatusCreated, dto.ToCreditCardResponse(card, nil))
}

// listCreditCards godoc
// @Summary List credit cards
// @Description Lists visible cards, each with its current statement
// @Tags credit-cards
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.CreditCardResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list credit cards"
// @Security BearerAuth
// @Router /households/{householdID}/credit-cards [get]
func (h *fundingHandler) listCreditCards(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	cards, err := h.fundingService.ListCreditCards(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to list credit cards")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCreditCardResponse(cards))
}
