package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tiendapos/internal/handler"
	"tiendapos/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health    *handler.HealthHandler
	Reception *handler.ReceptionHandler
	Sales     *handler.SalesHandler
	Inventory *handler.InventoryHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(log *logrus.Logger, allowedOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice reception workflow
	receptions := v1.Group("/receptions")
	receptions.POST("", h.Reception.Create)
	receptions.GET("/:id", h.Reception.Get)
	receptions.DELETE("/:id", h.Reception.Cancel)
	receptions.POST("/:id/counting", h.Reception.StartCounting)
	receptions.PUT("/:id/lines/:seq", h.Reception.SetReceived)
	receptions.POST("/:id/accept-all", h.Reception.AcceptAll)
	receptions.POST("/:id/refresh", h.Reception.Refresh)
	receptions.POST("/:id/finalize", h.Reception.Finalize)
	receptions.POST("/:id/reopen", h.Reception.Reopen)
	receptions.POST("/:id/apply", h.Reception.Apply)
	receptions.GET("/:id/report.csv", h.Reception.Report)
	receptions.GET("/:id/archive", h.Reception.Archive)

	// Point of sale
	v1.POST("/sales", h.Sales.Checkout)
	v1.GET("/inventory", h.Inventory.List)

	return r
}
