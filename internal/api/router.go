// Package api wires the dashboard's HTTP surface onto gin.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/handlers"
	"spx-dashboard/internal/api/middleware"
	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
	"spx-dashboard/internal/metrics"
)

// Deps is what the router serves. Hub and Metrics are optional.
type Deps struct {
	Controller  *controller.Controller
	Hub         http.Handler
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(logger))
	// metrics wraps the recovery handler so recovered panics count as 500s
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}
	router.Use(middleware.ErrorHandler(logger))

	dashboardHandler := handlers.NewDashboardHandler(d.Controller)
	strategyHandler := handlers.NewStrategyHandler(d.Controller)
	positionsHandler := handlers.NewPositionsHandler(d.Controller)
	riskHandler := handlers.NewRiskHandler(d.Controller)
	modalHandler := handlers.NewModalHandler(d.Controller)

	router.GET("/", dashboardHandler.Page)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.Hub != nil {
		router.GET("/ws", gin.WrapH(d.Hub))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/dashboard", dashboardHandler.Snapshot)
		api.GET("/panels/:panel", dashboardHandler.Panel)
		api.GET("/chart", dashboardHandler.Chart)

		api.PUT("/strategy", strategyHandler.Update)

		api.GET("/positions", positionsHandler.List)
		api.POST("/positions", positionsHandler.Create)

		api.POST("/risk", riskHandler.Update)

		api.POST("/modal/open", modalHandler.Open)
		api.POST("/modal/close", modalHandler.Close)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
			})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})

	return router
}
