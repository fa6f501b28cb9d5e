package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/auth"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/engine"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/live"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/monitoring"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

// DisplayItem is an order item decorated for the kitchen rail: the
// urgency band and elapsed wait are styling hints only, the slice order
// is the authoritative display order.
type DisplayItem struct {
	models.OrderItem
	Urgency     engine.UrgencyBand `json:"urgency"`
	WaitMinutes int                `json:"waitMinutes"`
}

// ListActiveItems returns the current kitchen rail: all items of active
// orders, optionally filtered by kitchen and/or section, ordered by
// priority then order time.
func (s *Server) ListActiveItems(c *gin.Context) {
	kitchenID := c.Query("kitchenId")
	section := c.Query("section")

	if section != "" && !models.ValidSection(section) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown section: " + section})
		return
	}
	if kitchenID != "" && !auth.HasKitchenAccess(auth.CurrentUser(c), kitchenID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	items, err := s.store.ListActiveItems(store.ItemFilter{KitchenID: kitchenID, Section: section})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := s.clock.Now()
	engine.SortForDisplay(items)

	display := make([]DisplayItem, len(items))
	for i, item := range items {
		display[i] = DisplayItem{
			OrderItem:   item,
			Urgency:     engine.Urgency(&item, now),
			WaitMinutes: int(item.WaitingSince(now).Minutes()),
		}
	}
	c.JSON(http.StatusOK, display)
}

// ListBatchSuggestions recomputes batch-cooking suggestions from the
// current pending snapshot, optionally filtered to one kitchen.
func (s *Server) ListBatchSuggestions(c *gin.Context) {
	kitchenID := c.Query("kitchenId")
	if kitchenID != "" && !auth.HasKitchenAccess(auth.CurrentUser(c), kitchenID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	items, err := s.store.ListActiveItems(store.ItemFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	suggestions := engine.BatchSuggestions(items, s.clock.Now())
	if kitchenID != "" {
		filtered := suggestions[:0]
		for _, sg := range suggestions {
			if sg.KitchenID == kitchenID {
				filtered = append(filtered, sg)
			}
		}
		suggestions = filtered
	}
	c.JSON(http.StatusOK, suggestions)
}

type setStatusRequest struct {
	Status models.ItemStatus `json:"status" binding:"required"`
}

// SetItemStatus advances one item along pending -> cooking -> ready ->
// served and notifies connected displays.
func (s *Server) SetItemStatus(c *gin.Context) {
	itemID := c.Param("id")
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	item, err := s.store.GetItem(itemID)
	if err != nil {
		monitoring.RecordItemTransition(string(req.Status), false)
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order item not found"})
		return
	}
	if !auth.HasKitchenAccess(auth.CurrentUser(c), item.MenuItem.KitchenID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
		return
	}

	updated, err := s.store.SetItemStatus(itemID, req.Status)
	if err != nil {
		monitoring.RecordItemTransition(string(req.Status), false)
		c.JSON(statusForStoreError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	monitoring.RecordItemTransition(string(req.Status), true)
	s.hub.Broadcast(live.Event{Type: live.EventItemStatusChanged, Payload: updated})
	c.JSON(http.StatusOK, gin.H{"success": true, "item": updated})
}

type batchStatusRequest struct {
	ItemIDs []string          `json:"itemIds" binding:"required"`
	Status  models.ItemStatus `json:"status" binding:"required"`
}

// SetItemsStatusBatch applies a status change to several items,
// continuing past failures. Items in kitchens the caller may not act on
// are reported as failed rather than blocking the rest.
func (s *Server) SetItemsStatusBatch(c *gin.Context) {
	var req batchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.applyBatchStatus(auth.CurrentUser(c), req.ItemIDs, req.Status)
	s.respondBatch(c, result, req.Status)
}

// ApplyBatch accepts a batch-cooking suggestion: every item in the
// group moves to cooking through the standard transition path.
func (s *Server) ApplyBatch(c *gin.Context) {
	var suggestion models.BatchSuggestion
	if err := c.ShouldBindJSON(&suggestion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(suggestion.OrderIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Suggestion has no items"})
		return
	}

	result := s.applyBatchStatus(auth.CurrentUser(c), suggestion.OrderIDs, models.ItemStatusCooking)
	monitoring.RecordBatchOperation(result.AllOK())
	if len(result.Succeeded) > 0 {
		s.hub.Broadcast(live.Event{Type: live.EventBatchStarted, Payload: gin.H{
			"menuItemId": suggestion.MenuItemID,
			"itemIds":    result.Succeeded,
		}})
	}
	s.respondBatch(c, result, models.ItemStatusCooking)
}

// applyBatchStatus screens each item for kitchen access, then runs the
// store's fail-soft batch transition over the allowed ones.
func (s *Server) applyBatchStatus(user *models.User, itemIDs []string, status models.ItemStatus) *store.BatchResult {
	result := &store.BatchResult{}
	allowed := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := s.store.GetItem(id)
		if err != nil {
			result.Failed = append(result.Failed, store.BatchFailure{ItemID: id, Reason: err.Error()})
			continue
		}
		if !auth.HasKitchenAccess(user, item.MenuItem.KitchenID) {
			result.Failed = append(result.Failed, store.BatchFailure{ItemID: id, Reason: "access denied"})
			continue
		}
		allowed = append(allowed, id)
	}

	applied := s.store.SetItemsStatusBatch(allowed, status)
	result.Succeeded = applied.Succeeded
	result.Failed = append(result.Failed, applied.Failed...)
	for _, id := range applied.Succeeded {
		monitoring.RecordItemTransition(string(status), true)
		if item, err := s.store.GetItem(id); err == nil {
			s.hub.Broadcast(live.Event{Type: live.EventItemStatusChanged, Payload: item})
		}
	}
	for range applied.Failed {
		monitoring.RecordItemTransition(string(status), false)
	}
	return result
}

func (s *Server) respondBatch(c *gin.Context, result *store.BatchResult, status models.ItemStatus) {
	code := http.StatusOK
	if len(result.Succeeded) == 0 && len(result.Failed) > 0 {
		code = http.StatusConflict
	}
	c.JSON(code, gin.H{
		"success":   result.AllOK(),
		"status":    status,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
}

// ListKitchens returns the active kitchens.
func (s *Server) ListKitchens(c *gin.Context) {
	kitchens, err := s.store.ListKitchens()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, kitchens)
}

// ListSections returns kitchen sections, optionally for one kitchen.
func (s *Server) ListSections(c *gin.Context) {
	sections, err := s.store.ListKitchenSections(c.Query("kitchenId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sections)
}

// ListMenu returns the catalog, optionally for one section.
func (s *Server) ListMenu(c *gin.Context) {
	items, err := s.store.ListMenuItems(c.Query("section"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// statusForStoreError maps store error kinds onto HTTP status codes.
func statusForStoreError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
