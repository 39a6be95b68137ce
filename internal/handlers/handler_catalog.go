package handlers

import (
	"net/http"

	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// catalogHandler handles products and stock.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := &catalogHandler{catalogService: catalogService}

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
	}

	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.listInventory)
		inventory.PUT("/:productID", h.setInventory)
	}
}

// createProduct godoc
// @Summary Create a product
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 409 {object} dto.ErrorResponse "Product name already used"
// @Failure 500 {object} dto.ErrorResponse "Failed to create product"
// @Security BearerAuth
// @Router /households/{householdID}/products [post]
func (h *catalogHandler) createProduct(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalogService.CreateProduct(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Tags catalog
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.ProductResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list products"
// @Security BearerAuth
// @Router /households/{householdID}/products [get]
func (h *catalogHandler) listProducts(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	products, err := h.catalogService.ListProducts(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// setInventory godoc
// @Summary Set the stock of a product
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Param   productID path string true "Product ID"
// @Param   stock body dto.SetInventoryRequest true "Quantity and optional threshold"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quantity"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to set inventory"
// @Security BearerAuth
// @Router /households/{householdID}/inventory/{productID} [put]
func (h *catalogHandler) setInventory(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	var req dto.SetInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.catalogService.SetInventory(c.Request.Context(), householdID, userID, c.Param("productID"), req)
	if err != nil {
		respondError(c, err, "Failed to set inventory")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// listInventory godoc
// @Summary List stock
// @Tags catalog
// @Produce  json
// @Param   householdID path string true "Household ID"
// @Success 200 {array} dto.InventoryItemResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member of the household"
// @Failure 500 {object} dto.ErrorResponse "Failed to list inventory"
// @Security BearerAuth
// @Router /households/{householdID}/inventory [get]
func (h *catalogHandler) listInventory(c *gin.Context) {
	householdID, userID, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.catalogService.ListInventory(c.Request.Context(), householdID, userID)
	if err != nil {
		respondError(c, err, "Failed to list inventory")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryItemResponses(items))
}
