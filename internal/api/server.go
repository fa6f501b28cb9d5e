package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/auth"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/live"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/monitoring"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/printer"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

// Server wires the REST surface over the order store, the priority and
// batching engine, the auth service and the display hub.
type Server struct {
	Router  *gin.Engine
	store   *store.Store
	auth    *auth.Service
	hub     *live.Hub
	printer *printer.Dispatcher
	clock   store.Clock
}

// NewServer assembles the router with all routes registered.
func NewServer(st *store.Store, authService *auth.Service, hub *live.Hub, dispatcher *printer.Dispatcher, clock store.Clock) *Server {
	if clock == nil {
		clock = store.SystemClock{}
	}

	router := gin.Default()
	router.Use(monitoring.RequestMetrics())

	s := &Server{
		Router:  router,
		store:   st,
		auth:    authService,
		hub:     hub,
		printer: dispatcher,
		clock:   clock,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Plate Flow API is running"})
	})

	s.Router.GET("/ws", s.hub.HandleWS)

	v1 := s.Router.Group("/api/v1")
	v1.POST("/auth/login", s.Login)

	authed := v1.Group("")
	authed.Use(auth.RequireAuth(s.auth))
	{
		authed.GET("/auth/me", s.CurrentUser)

		// Reference data
		authed.GET("/kitchens", s.ListKitchens)
		authed.GET("/sections", s.ListSections)
		authed.GET("/menu", s.ListMenu)

		// Kitchen display
		authed.GET("/kitchen/items", s.ListActiveItems)
		authed.GET("/kitchen/batch-suggestions", s.ListBatchSuggestions)
		authed.POST("/kitchen/items/:id/status", s.SetItemStatus)
		authed.POST("/kitchen/items/status", s.SetItemsStatusBatch)
		authed.POST("/kitchen/batch", s.ApplyBatch)

		// Captain order management
		captains := authed.Group("", auth.RequireRole(
			models.RoleCaptain, models.RoleManager, models.RoleAdmin))
		{
			captains.POST("/orders", s.CreateOrder)
			captains.GET("/orders", s.ListOrders)
			captains.GET("/orders/:id", s.GetOrder)
			captains.POST("/orders/:id/complete", s.CompleteOrder)
			captains.POST("/orders/:id/cancel", s.CancelOrder)
			captains.POST("/orders/:id/print", s.PrintKOT)
		}

		// Manager dashboard
		authed.GET("/stats", auth.RequireRole(models.RoleManager, models.RoleAdmin), s.DashboardStats)
	}
}
