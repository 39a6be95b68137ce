package handlers

import (
	"net/http"

	"github.com/domohq/domo_backend/cmd/docs"
	portssvc "github.com/domohq/domo_backend/internal/core/ports/services"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/domohq/domo_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	RegisterHouseholdRoutes(v1, services)

	setupSwaggerRoutes(r, cfg)
}

// RegisterHouseholdRoutes mounts every household-scoped route under rg.
func RegisterHouseholdRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	household := rg.Group("/households/:householdID")

	registerTransactionRoutes(household, services.Transaction)
	registerInvoiceRoutes(household, services.Invoice)
	registerFundingRoutes(household, services.Funding)
	registerCategoryRoutes(household, services.Category, services.RecurringBill)
	registerCatalogRoutes(household, services.Catalog)
	registerShoppingRoutes(household, services.Shopping)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
