// Package engine computes kitchen display ordering, urgency banding and
// batch-cooking suggestions. Every function is pure over an item
// snapshot and an explicit reference time, so outputs are deterministic
// and safe to recompute concurrently with store mutations.
package engine

import (
	"sort"
	"time"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

// Tunable business constants. The batch ceiling is a station capacity
// heuristic; the urgency thresholds drive display styling only.
const (
	// BatchSizeLimit is the largest combined quantity a single station
	// run can handle.
	BatchSizeLimit = 6

	// UrgentAfter is how long an item may wait before it is flagged
	// urgent regardless of its priority score.
	UrgentAfter = 30 * time.Minute

	// HighPriorityAbove and MediumPriorityAbove band the priority score
	// for items that are not yet urgent.
	HighPriorityAbove   = 90
	MediumPriorityAbove = 70
)

// UrgencyBand classifies an item for styling and alerting. Banding never
// affects display order; ordering is priority-then-time alone.
type UrgencyBand string

const (
	UrgencyUrgent UrgencyBand = "urgent"
	UrgencyHigh   UrgencyBand = "high"
	UrgencyMedium UrgencyBand = "medium"
	UrgencyLow    UrgencyBand = "low"
)

// Urgency bands an item by elapsed wait and priority score.
func Urgency(item *models.OrderItem, now time.Time) UrgencyBand {
	if item.WaitingSince(now) > UrgentAfter {
		return UrgencyUrgent
	}
	if item.Priority > HighPriorityAbove {
		return UrgencyHigh
	}
	if item.Priority > MediumPriorityAbove {
		return UrgencyMedium
	}
	return UrgencyLow
}

// SortForDisplay orders items for a kitchen ticket rail: highest
// priority first, ties broken by earlier order time. The slice is
// sorted in place and returned for convenience.
func SortForDisplay(items []models.OrderItem) []models.OrderItem {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].OrderTime.Before(items[j].OrderTime)
	})
	return items
}

// BatchSuggestions proposes joint cook starts for pending items of the
// same menu item across tables. Groups of one are skipped: there is no
// batching benefit. Suggestions are sorted by menu item id so displays
// are stable across refreshes.
func BatchSuggestions(items []models.OrderItem, now time.Time) []models.BatchSuggestion {
	groups := make(map[string][]models.OrderItem)
	for _, item := range items {
		if item.Status != models.ItemStatusPending {
			continue
		}
		groups[item.MenuItemID] = append(groups[item.MenuItemID], item)
	}

	var suggestions []models.BatchSuggestion
	for menuItemID, group := range groups {
		if len(group) < 2 {
			continue
		}

		var totalQuantity int
		var totalWait time.Duration
		orderIDs := make([]string, 0, len(group))
		seenTables := make(map[int]bool)
		var tableNumbers []int

		for _, item := range group {
			totalQuantity += item.Quantity
			totalWait += item.WaitingSince(now)
			orderIDs = append(orderIDs, item.ID)
			if !seenTables[item.TableNumber] {
				seenTables[item.TableNumber] = true
				tableNumbers = append(tableNumbers, item.TableNumber)
			}
		}

		suggestions = append(suggestions, models.BatchSuggestion{
			MenuItemID:    menuItemID,
			MenuItem:      group[0].MenuItem,
			TotalQuantity: totalQuantity,
			OrderIDs:      orderIDs,
			TableNumbers:  tableNumbers,
			AvgWaitTime:   totalWait.Minutes() / float64(len(group)),
			CanBatch:      totalQuantity <= BatchSizeLimit,
			KitchenID:     group[0].MenuItem.KitchenID,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].MenuItemID < suggestions[j].MenuItemID
	})
	return suggestions
}

// ItemStatusSetter is the slice of the order store the engine needs to
// act on an accepted suggestion.
type ItemStatusSetter interface {
	SetItemsStatusBatch(itemIDs []string, newStatus models.ItemStatus) *store.BatchResult
}

// ApplyBatch accepts a suggestion by moving every item in it to cooking
// through the store's standard transition path. It confers no atomicity
// beyond that primitive's continue-on-error semantics: items that raced
// ahead of the suggestion simply report a failed transition.
func ApplyBatch(setter ItemStatusSetter, suggestion models.BatchSuggestion) *store.BatchResult {
	return setter.SetItemsStatusBatch(suggestion.OrderIDs, models.ItemStatusCooking)
}
