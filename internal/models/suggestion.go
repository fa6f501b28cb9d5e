package models

// BatchSuggestion proposes cooking several pending orders of the same
// menu item together. It is derived from the current item snapshot and
// never persisted; every refresh recomputes the full set.
type BatchSuggestion struct {
	MenuItemID    string   `json:"menuItemId"`
	MenuItem      MenuItem `json:"menuItem"`
	TotalQuantity int      `json:"totalQuantity"`
	OrderIDs      []string `json:"orderIds"` // order item ids in the group
	TableNumbers  []int    `json:"tableNumbers"`
	AvgWaitTime   float64  `json:"avgWaitTime"` // minutes
	CanBatch      bool     `json:"canBatch"`
	KitchenID     string   `json:"kitchenId"`
}
