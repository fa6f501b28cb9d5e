package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
)

// Store is the authoritative holder of orders and their items. All item
// state changes go through its mutation entry points; displays work from
// read-only snapshots and may be up to one refresh interval stale.
type Store struct {
	db    *gorm.DB
	clock Clock
}

// NewStore creates a store over the given database handle.
func NewStore(db *gorm.DB, clock Clock) *Store {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Store{db: db, clock: clock}
}

// ItemFilter narrows an active-item snapshot to one kitchen and/or one
// menu section. Zero values match everything.
type ItemFilter struct {
	KitchenID string
	Section   string
}

// ListActiveItems returns every item belonging to an active order, with
// its menu item loaded. The result is an unordered snapshot; display
// ordering is the engine's job.
func (s *Store) ListActiveItems(filter ItemFilter) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", models.OrderStatusActive).
		Preload("MenuItem").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading active items: %w", err)
	}

	if filter.KitchenID == "" && filter.Section == "" {
		return items, nil
	}

	filtered := items[:0]
	for _, item := range items {
		if filter.KitchenID != "" && item.MenuItem.KitchenID != filter.KitchenID {
			continue
		}
		if filter.Section != "" && item.MenuItem.Section != filter.Section {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// GetItem loads a single order item by id.
func (s *Store) GetItem(itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := s.db.Preload("MenuItem").Where("id = ?", itemID).First(&item).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading order item %s: %w", itemID, err)
	}
	return &item, nil
}

// SetItemStatus advances an item to newStatus. Only the immediate next
// stage of pending -> cooking -> ready -> served is accepted; the
// timestamp matching newStatus is stamped with the current time if it is
// not already set, and earlier-stage timestamps are left untouched.
func (s *Store) SetItemStatus(itemID string, newStatus models.ItemStatus) (*models.OrderItem, error) {
	if !models.ValidItemStatus(newStatus) {
		return nil, fmt.Errorf("unknown status %q: %w", newStatus, ErrValidation)
	}

	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(item.Status, newStatus) {
		return nil, fmt.Errorf("item %s: %s -> %s: %w",
			itemID, item.Status, newStatus, ErrInvalidTransition)
	}

	item.Status = newStatus
	if ts := item.StatusTimestamp(newStatus); ts != nil && *ts == nil {
		now := s.clock.Now()
		*ts = &now
	}

	// Save a copy with the association zeroed so gorm does not touch
	// the catalog row.
	row := *item
	row.MenuItem = models.MenuItem{}
	if err := s.db.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("saving item %s: %w", itemID, err)
	}
	return item, nil
}

// SetItemsStatusBatch applies SetItemStatus to each id, continuing past
// failures and reporting per-id outcomes.
func (s *Store) SetItemsStatusBatch(itemIDs []string, newStatus models.ItemStatus) *BatchResult {
	result := &BatchResult{}
	for _, id := range itemIDs {
		if _, err := s.SetItemStatus(id, newStatus); err != nil {
			result.Failed = append(result.Failed, BatchFailure{ItemID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	MenuItemID          string `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	SpecialInstructions string `json:"specialInstructions"`
	Priority            int    `json:"priority"`
}

// CreateOrderInput carries everything needed to open a table order.
type CreateOrderInput struct {
	TableNumber  int         `json:"tableNumber" binding:"required"`
	CustomerName string      `json:"customerName"`
	Notes        string      `json:"notes"`
	Lines        []OrderLine `json:"items" binding:"required"`
}

// CreateOrder validates the request, prices it from the catalog and
// persists the order with all items pending. Malformed quantities are
// rejected here so the engine only ever sees well-formed snapshots.
func (s *Store) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.TableNumber <= 0 {
		return nil, fmt.Errorf("table number must be positive: %w", ErrValidation)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("order must contain at least one item: %w", ErrValidation)
	}

	now := s.clock.Now()
	order := &models.Order{
		ID:           uuid.New().String(),
		TableNumber:  input.TableNumber,
		Status:       models.OrderStatusActive,
		OrderTime:    now,
		CustomerName: input.CustomerName,
		Notes:        input.Notes,
	}

	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive for %s: %w",
				line.MenuItemID, ErrValidation)
		}

		var menuItem models.MenuItem
		err := s.db.Where("id = ?", line.MenuItemID).First(&menuItem).Error
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("menu item %s: %w", line.MenuItemID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("loading menu item %s: %w", line.MenuItemID, err)
		}

		priority := line.Priority
		if priority <= 0 {
			priority = defaultPriority(menuItem.CookingTime)
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:                  uuid.New().String(),
			OrderID:             order.ID,
			MenuItemID:          menuItem.ID,
			MenuItem:            menuItem,
			Quantity:            line.Quantity,
			TableNumber:         input.TableNumber,
			Status:              models.ItemStatusPending,
			OrderTime:           now,
			SpecialInstructions: line.SpecialInstructions,
			Priority:            priority,
		})
		order.Total += menuItem.Price * float64(line.Quantity)
	}

	tx := s.db.Begin()
	orderRow := *order
	orderRow.Items = nil // items are created explicitly below
	if err := tx.Create(&orderRow).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("creating order: %w", err)
	}
	for i := range order.Items {
		itemRow := order.Items[i]
		itemRow.MenuItem = models.MenuItem{}
		if err := tx.Create(&itemRow).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("creating order item: %w", err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}
	return order, nil
}

// defaultPriority seeds a new item's priority from its cooking time:
// quick items rank higher so they are not left idling behind long cooks.
func defaultPriority(cookingMinutes int) int {
	p := 100 - cookingMinutes*2
	if p < 10 {
		p = 10
	}
	return p
}

// GetOrder loads an order with its items and their menu detail.
func (s *Store) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.MenuItem").
		Where("id = ?", orderID).First(&order).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading order %s: %w", orderID, err)
	}
	return &order, nil
}

// ListOrders returns orders filtered by status; an empty status returns
// everything. Results are newest first.
func (s *Store) ListOrders(status models.OrderStatus) ([]models.Order, error) {
	query := s.db.Preload("Items").Preload("Items.MenuItem").Order("order_time desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// CompleteOrder closes an order once every item has been served.
func (s *Store) CompleteOrder(orderID string) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusActive {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrInvalidTransition)
	}
	if !order.AllServed() {
		return nil, fmt.Errorf("order %s has unserved items: %w", orderID, ErrValidation)
	}
	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusCompleted).Error; err != nil {
		return nil, fmt.Errorf("completing order %s: %w", orderID, err)
	}
	order.Status = models.OrderStatusCompleted
	return order, nil
}

// CancelOrder cancels an active order. Completed orders stay completed.
func (s *Store) CancelOrder(orderID string) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusActive {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrInvalidTransition)
	}
	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("cancelling order %s: %w", orderID, err)
	}
	order.Status = models.OrderStatusCancelled
	return order, nil
}

// Stats summarizes current load for the manager dashboard.
type Stats struct {
	ActiveOrders int `json:"activeOrders"`
	PendingItems int `json:"pendingItems"`
	CookingItems int `json:"cookingItems"`
	ReadyItems   int `json:"readyItems"`
}

// DashboardStats tallies active orders and their items by status.
func (s *Store) DashboardStats() (*Stats, error) {
	items, err := s.ListActiveItems(ItemFilter{})
	if err != nil {
		return nil, err
	}

	var count int
	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusActive).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("counting active orders: %w", err)
	}

	stats := &Stats{ActiveOrders: count}
	for _, item := range items {
		switch item.Status {
		case models.ItemStatusPending:
			stats.PendingItems++
		case models.ItemStatusCooking:
			stats.CookingItems++
		case models.ItemStatusReady:
			stats.ReadyItems++
		}
	}
	return stats, nil
}
