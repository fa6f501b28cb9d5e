package models

import (
	"time"
)

// OrderStatus represents the lifecycle state of a table order
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ItemStatus represents the preparation state of a single order item.
// Items move strictly forward: pending -> cooking -> ready -> served.
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusCooking ItemStatus = "cooking"
	ItemStatusReady   ItemStatus = "ready"
	ItemStatusServed  ItemStatus = "served"
)

// nextItemStatus is the single-step forward transition table.
var nextItemStatus = map[ItemStatus]ItemStatus{
	ItemStatusPending: ItemStatusCooking,
	ItemStatusCooking: ItemStatusReady,
	ItemStatusReady:   ItemStatusServed,
}

// ValidItemStatus reports whether s names a known item status.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemStatusPending, ItemStatusCooking, ItemStatusReady, ItemStatusServed:
		return true
	}
	return false
}

// CanTransition reports whether an item may move from one status to
// another. Only the immediate next stage is legal; redundant and backward
// moves are rejected so every timestamp is stamped exactly once.
func CanTransition(from, to ItemStatus) bool {
	next, ok := nextItemStatus[from]
	return ok && next == to
}

// Order represents a table order placed by a captain
type Order struct {
	ID           string      `gorm:"primary_key" json:"id"`
	TableNumber  int         `json:"tableNumber"`
	Items        []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	Status       OrderStatus `json:"status"`
	OrderTime    time.Time   `json:"orderTime"`
	Total        float64     `json:"total"`
	CustomerName string      `json:"customerName,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"-"`
	UpdatedAt    time.Time   `json:"-"`
}

// OrderItem represents a single line of an order. TableNumber and
// OrderTime are denormalized from the owning order so kitchen displays
// can work from an item snapshot alone.
type OrderItem struct {
	ID                  string     `gorm:"primary_key" json:"id"`
	OrderID             string     `gorm:"index" json:"orderId"`
	MenuItemID          string     `json:"menuItemId"`
	MenuItem            MenuItem   `gorm:"foreignkey:MenuItemID" json:"menuItem"`
	Quantity            int        `json:"quantity"`
	TableNumber         int        `json:"tableNumber"`
	Status              ItemStatus `json:"status"`
	OrderTime           time.Time  `json:"orderTime"`
	CookingStartTime    *time.Time `json:"cookingStartTime,omitempty"`
	ReadyTime           *time.Time `json:"readyTime,omitempty"`
	ServedTime          *time.Time `json:"servedTime,omitempty"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
	Priority            int        `json:"priority"`
	CreatedAt           time.Time  `json:"-"`
	UpdatedAt           time.Time  `json:"-"`
}

// WaitingSince returns how long the item has been waiting since it was
// ordered, relative to the supplied reference time.
func (oi *OrderItem) WaitingSince(now time.Time) time.Duration {
	return now.Sub(oi.OrderTime)
}

// StatusTimestamp returns a pointer to the timestamp field matching the
// given status, or nil for pending (whose time is OrderTime itself).
func (oi *OrderItem) StatusTimestamp(status ItemStatus) **time.Time {
	switch status {
	case ItemStatusCooking:
		return &oi.CookingStartTime
	case ItemStatusReady:
		return &oi.ReadyTime
	case ItemStatusServed:
		return &oi.ServedTime
	}
	return nil
}

// OrderProgress summarizes how far along an order's items are, for the
// captain's table view.
type OrderProgress struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Cooking int `json:"cooking"`
	Ready   int `json:"ready"`
	Served  int `json:"served"`
}

// Progress tallies the order's items by status.
func (o *Order) Progress() OrderProgress {
	p := OrderProgress{Total: len(o.Items)}
	for _, item := range o.Items {
		switch item.Status {
		case ItemStatusPending:
			p.Pending++
		case ItemStatusCooking:
			p.Cooking++
		case ItemStatusReady:
			p.Ready++
		case ItemStatusServed:
			p.Served++
		}
	}
	return p
}

// AllServed reports whether every item of the order has been served.
func (o *Order) AllServed() bool {
	for _, item := range o.Items {
		if item.Status != ItemStatusServed {
			return false
		}
	}
	return len(o.Items) > 0
}
