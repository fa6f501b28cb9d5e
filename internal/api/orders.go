package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/live"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/monitoring"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

// CreateOrder opens a table order: the request is validated and priced
// against the catalog, every item starts pending.
func (s *Server) CreateOrder(c *gin.Context) {
	var input store.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.store.CreateOrder(input)
	if err != nil {
		c.JSON(statusForStoreError(err), gin.H{"error": err.Error()})
		return
	}

	s.hub.Broadcast(live.Event{Type: live.EventOrderCreated, Payload: order})
	c.JSON(http.StatusCreated, order)
}

// orderView augments an order with its per-status item progress for the
// captain's table overview.
type orderView struct {
	models.Order
	Progress models.OrderProgress `json:"progress"`
}

// ListOrders returns orders filtered by the status query parameter
// (default: active), newest first.
func (s *Server) ListOrders(c *gin.Context) {
	status := models.OrderStatus(c.DefaultQuery("status", string(models.OrderStatusActive)))
	if c.Query("status") == "all" {
		status = ""
	}

	orders, err := s.store.ListOrders(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]orderView, len(orders))
	for i, order := range orders {
		views[i] = orderView{Order: order, Progress: order.Progress()}
	}
	c.JSON(http.StatusOK, views)
}

// GetOrder returns one order with items and progress.
func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.store.GetOrder(c.Param("id"))
	if err != nil {
		c.JSON(statusForStoreError(err), gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, orderView{Order: *order, Progress: order.Progress()})
}

// CompleteOrder closes an order once every item is served.
func (s *Server) CompleteOrder(c *gin.Context) {
	order, err := s.store.CompleteOrder(c.Param("id"))
	if err != nil {
		c.JSON(statusForStoreError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an active order.
func (s *Server) CancelOrder(c *gin.Context) {
	order, err := s.store.CancelOrder(c.Param("id"))
	if err != nil {
		c.JSON(statusForStoreError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

type printRequest struct {
	Section string `json:"section"`
}

// PrintKOT dispatches a kitchen order ticket for the order, optionally
// limited to one menu section.
func (s *Server) PrintKOT(c *gin.Context) {
	var req printRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Section != "" && !models.ValidSection(req.Section) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown section: " + req.Section})
		return
	}

	order, err := s.store.GetOrder(c.Param("id"))
	if err != nil {
		c.JSON(statusForStoreError(err), gin.H{"error": "Order not found"})
		return
	}

	lines, err := s.printer.PrintKOT(c.Request.Context(), order, req.Section, s.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	monitoring.RecordKOTPrint()
	c.JSON(http.StatusOK, gin.H{"printed": lines, "section": req.Section})
}

// DashboardStats summarizes current load for the manager dashboard.
func (s *Server) DashboardStats(c *gin.Context) {
	stats, err := s.store.DashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
