package engine

import (
	"testing"
	"time"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func pendingItem(id, menuItemID string, quantity, table int, waitedMinutes int) models.OrderItem {
	return models.OrderItem{
		ID:         id,
		MenuItemID: menuItemID,
		MenuItem: models.MenuItem{
			ID:          menuItemID,
			Name:        menuItemID,
			Section:     "grill",
			KitchenID:   "kitchen-main",
			CookingTime: 15,
			Price:       10,
		},
		Quantity:    quantity,
		TableNumber: table,
		Status:      models.ItemStatusPending,
		OrderTime:   testNow.Add(-time.Duration(waitedMinutes) * time.Minute),
		Priority:    50,
	}
}

func TestSortForDisplay(t *testing.T) {
	early := testNow.Add(-20 * time.Minute)
	late := testNow.Add(-5 * time.Minute)

	items := []models.OrderItem{
		{ID: "low-late", Priority: 40, OrderTime: late},
		{ID: "high", Priority: 90, OrderTime: late},
		{ID: "low-early", Priority: 40, OrderTime: early},
		{ID: "mid", Priority: 70, OrderTime: early},
	}

	SortForDisplay(items)

	want := []string{"high", "mid", "low-early", "low-late"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, items[i].ID, id)
		}
	}
}

func TestSortForDisplayIgnoresUrgency(t *testing.T) {
	// An item that has waited past the urgent threshold must not jump
	// ahead of a higher-priority fresh item.
	urgent := models.OrderItem{ID: "urgent", Priority: 20, OrderTime: testNow.Add(-45 * time.Minute)}
	fresh := models.OrderItem{ID: "fresh", Priority: 80, OrderTime: testNow.Add(-1 * time.Minute)}

	if got := Urgency(&urgent, testNow); got != UrgencyUrgent {
		t.Fatalf("Urgency(urgent) = %s, want %s", got, UrgencyUrgent)
	}

	items := SortForDisplay([]models.OrderItem{urgent, fresh})
	if items[0].ID != "fresh" {
		t.Errorf("urgent item reordered ahead of higher priority: got %s first", items[0].ID)
	}
}

func TestUrgencyBands(t *testing.T) {
	tests := []struct {
		name          string
		priority      int
		waitedMinutes int
		want          UrgencyBand
	}{
		{"over 30 minutes is urgent regardless of priority", 10, 31, UrgencyUrgent},
		{"exactly 30 minutes is not urgent", 95, 30, UrgencyHigh},
		{"priority above 90 is high", 91, 5, UrgencyHigh},
		{"priority 90 is medium", 90, 5, UrgencyMedium},
		{"priority above 70 is medium", 71, 5, UrgencyMedium},
		{"priority 70 is low", 70, 5, UrgencyLow},
		{"low priority fresh item is low", 30, 5, UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.OrderItem{
				Priority:  tt.priority,
				OrderTime: testNow.Add(-time.Duration(tt.waitedMinutes) * time.Minute),
			}
			if got := Urgency(&item, testNow); got != tt.want {
				t.Errorf("Urgency(priority=%d, waited=%dm) = %s, want %s",
					tt.priority, tt.waitedMinutes, got, tt.want)
			}
		})
	}
}

func TestBatchSuggestionsGroupsAcrossTables(t *testing.T) {
	items := []models.OrderItem{
		pendingItem("item-1", "grill-1", 2, 3, 10),
		pendingItem("item-2", "grill-1", 1, 5, 20),
		pendingItem("item-3", "grill-1", 1, 5, 30),
	}

	suggestions := BatchSuggestions(items, testNow)
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}

	sg := suggestions[0]
	if sg.MenuItemID != "grill-1" {
		t.Errorf("MenuItemID = %s, want grill-1", sg.MenuItemID)
	}
	if sg.TotalQuantity != 4 {
		t.Errorf("TotalQuantity = %d, want 4", sg.TotalQuantity)
	}
	if len(sg.OrderIDs) != 3 {
		t.Errorf("got %d order ids, want 3", len(sg.OrderIDs))
	}
	if len(sg.TableNumbers) != 2 {
		t.Errorf("TableNumbers = %v, want the distinct set {3, 5}", sg.TableNumbers)
	}
	if !sg.CanBatch {
		t.Error("CanBatch = false, want true for total quantity 4")
	}
	if sg.KitchenID != "kitchen-main" {
		t.Errorf("KitchenID = %s, want kitchen-main", sg.KitchenID)
	}
	if sg.AvgWaitTime != 20 {
		t.Errorf("AvgWaitTime = %.1f, want 20.0", sg.AvgWaitTime)
	}
}

func TestBatchSuggestionsSkipsSingletons(t *testing.T) {
	items := []models.OrderItem{
		pendingItem("item-1", "grill-1", 3, 3, 10),
		pendingItem("item-2", "salad-1", 1, 4, 10),
	}

	if suggestions := BatchSuggestions(items, testNow); len(suggestions) != 0 {
		t.Errorf("got %d suggestions for singleton groups, want 0", len(suggestions))
	}
}

func TestBatchSuggestionsPendingOnly(t *testing.T) {
	cooking := pendingItem("item-2", "grill-1", 1, 4, 10)
	cooking.Status = models.ItemStatusCooking

	items := []models.OrderItem{
		pendingItem("item-1", "grill-1", 1, 3, 10),
		cooking,
	}

	if suggestions := BatchSuggestions(items, testNow); len(suggestions) != 0 {
		t.Errorf("cooking item counted toward a batch group: got %d suggestions", len(suggestions))
	}
}

func TestBatchSuggestionsCeilingBoundary(t *testing.T) {
	atLimit := []models.OrderItem{
		pendingItem("item-1", "grill-1", 3, 3, 10),
		pendingItem("item-2", "grill-1", 3, 5, 10),
	}
	overLimit := []models.OrderItem{
		pendingItem("item-3", "grill-2", 4, 3, 10),
		pendingItem("item-4", "grill-2", 3, 5, 10),
	}

	if sg := BatchSuggestions(atLimit, testNow)[0]; !sg.CanBatch {
		t.Error("total quantity 6: CanBatch = false, want true")
	}
	if sg := BatchSuggestions(overLimit, testNow)[0]; sg.CanBatch {
		t.Error("total quantity 7: CanBatch = true, want false")
	}
}

func TestBatchSuggestionsStableOrder(t *testing.T) {
	items := []models.OrderItem{
		pendingItem("item-1", "salad-1", 1, 3, 10),
		pendingItem("item-2", "salad-1", 1, 4, 10),
		pendingItem("item-3", "grill-1", 1, 5, 10),
		pendingItem("item-4", "grill-1", 1, 6, 10),
	}

	suggestions := BatchSuggestions(items, testNow)
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(suggestions))
	}
	if suggestions[0].MenuItemID != "grill-1" || suggestions[1].MenuItemID != "salad-1" {
		t.Errorf("suggestions not sorted by menu item id: %s, %s",
			suggestions[0].MenuItemID, suggestions[1].MenuItemID)
	}
}

// fakeSetter records what ApplyBatch asked the store to do.
type fakeSetter struct {
	gotIDs    []string
	gotStatus models.ItemStatus
}

func (f *fakeSetter) SetItemsStatusBatch(itemIDs []string, newStatus models.ItemStatus) *store.BatchResult {
	f.gotIDs = itemIDs
	f.gotStatus = newStatus
	return &store.BatchResult{Succeeded: itemIDs}
}

func TestApplyBatchMovesGroupToCooking(t *testing.T) {
	setter := &fakeSetter{}
	suggestion := models.BatchSuggestion{
		MenuItemID: "grill-1",
		OrderIDs:   []string{"item-1", "item-2"},
	}

	result := ApplyBatch(setter, suggestion)

	if setter.gotStatus != models.ItemStatusCooking {
		t.Errorf("ApplyBatch set status %s, want cooking", setter.gotStatus)
	}
	if len(setter.gotIDs) != 2 {
		t.Errorf("ApplyBatch passed %d ids, want 2", len(setter.gotIDs))
	}
	if !result.AllOK() {
		t.Error("expected all items to succeed")
	}
}
