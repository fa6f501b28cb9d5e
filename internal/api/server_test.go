package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/auth"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/database"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/live"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/printer"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func testServer(t *testing.T) (*Server, *testClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Seed(db))

	clock := &testClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
	orderStore := store.NewStore(db, clock)
	authService := auth.NewService(db, "test-secret", time.Hour, clock)
	dispatcher, err := printer.NewDispatcher("", "kot_test")
	require.NoError(t, err)

	return NewServer(orderStore, authService, live.NewHub(), dispatcher, clock), clock
}

func login(t *testing.T, s *Server, username string) string {
	t.Helper()
	w := doJSON(s, "POST", "/api/v1/auth/login", "",
		gin.H{"username": username, "password": "password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func doJSON(s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func placeOrder(t *testing.T, s *Server, token string, table int, lines ...gin.H) map[string]interface{} {
	t.Helper()
	w := doJSON(s, "POST", "/api/v1/orders", token, gin.H{"tableNumber": table, "items": lines})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	return order
}

func orderItemIDs(t *testing.T, order map[string]interface{}) []string {
	t.Helper()
	items, ok := order["items"].([]interface{})
	require.True(t, ok)
	ids := make([]string, len(items))
	for i, raw := range items {
		ids[i] = raw.(map[string]interface{})["id"].(string)
	}
	return ids
}

func TestLoginReturnsRoutingInfo(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(s, "POST", "/api/v1/auth/login", "",
		gin.H{"username": "captain", "password": "password"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token      string   `json:"token"`
		Dashboards []string `json:"dashboards"`
		Landing    string   `json:"landing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []string{"captain"}, resp.Dashboards)
	assert.Equal(t, "captain", resp.Landing)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _ := testServer(t)
	w := doJSON(s, "POST", "/api/v1/auth/login", "",
		gin.H{"username": "captain", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutesRequireAuth(t *testing.T) {
	s, _ := testServer(t)
	w := doJSON(s, "GET", "/api/v1/kitchen/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKitchenItemsOrderingAndUrgency(t *testing.T) {
	s, clock := testServer(t)
	captain := login(t, s, "captain")
	kitchen := login(t, s, "kitchen")

	placeOrder(t, s, captain, 3,
		gin.H{"menuItemId": "grill-2", "quantity": 1, "priority": 40}, // slow cook, low priority
		gin.H{"menuItemId": "salad-1", "quantity": 1, "priority": 95},
	)
	clock.now = clock.now.Add(35 * time.Minute)

	w := doJSON(s, "GET", "/api/v1/kitchen/items", kitchen, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var items []struct {
		MenuItemID  string `json:"menuItemId"`
		Priority    int    `json:"priority"`
		Urgency     string `json:"urgency"`
		WaitMinutes int    `json:"waitMinutes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)

	// Priority decides the order; the stale low-priority item is banded
	// urgent but stays behind.
	assert.Equal(t, "salad-1", items[0].MenuItemID)
	assert.Equal(t, "grill-2", items[1].MenuItemID)
	assert.Equal(t, "urgent", items[1].Urgency)
	assert.Equal(t, 35, items[1].WaitMinutes)
}

func TestKitchenAccessGating(t *testing.T) {
	s, _ := testServer(t)
	kitchen := login(t, s, "kitchen") // granted kitchen-main only

	w := doJSON(s, "GET", "/api/v1/kitchen/items?kitchenId=kitchen-bar", kitchen, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(s, "GET", "/api/v1/kitchen/items?kitchenId=kitchen-main", kitchen, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	manager := login(t, s, "manager")
	w = doJSON(s, "GET", "/api/v1/kitchen/items?kitchenId=kitchen-bar", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetItemStatusLifecycle(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")
	kitchen := login(t, s, "kitchen")

	order := placeOrder(t, s, captain, 5, gin.H{"menuItemId": "grill-1", "quantity": 1})
	itemID := orderItemIDs(t, order)[0]
	path := fmt.Sprintf("/api/v1/kitchen/items/%s/status", itemID)

	// Skipping a stage is rejected.
	w := doJSON(s, "POST", path, kitchen, gin.H{"status": "ready"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(s, "POST", path, kitchen, gin.H{"status": "cooking"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Item    struct {
			Status           string  `json:"status"`
			CookingStartTime *string `json:"cookingStartTime"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "cooking", resp.Item.Status)
	assert.NotNil(t, resp.Item.CookingStartTime)

	// Unknown item surfaces not-found.
	w = doJSON(s, "POST", "/api/v1/kitchen/items/ghost/status", kitchen, gin.H{"status": "cooking"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetItemStatusDeniedOutsideGrantedKitchen(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")
	kitchen := login(t, s, "kitchen") // no kitchen-bar grant

	order := placeOrder(t, s, captain, 5, gin.H{"menuItemId": "beverage-1", "quantity": 1})
	itemID := orderItemIDs(t, order)[0]

	w := doJSON(s, "POST", fmt.Sprintf("/api/v1/kitchen/items/%s/status", itemID),
		kitchen, gin.H{"status": "cooking"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBatchSuggestionFlow(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")
	kitchen := login(t, s, "kitchen")

	// grill-1 pending from tables 3, 5, 5 with quantities 2, 1, 1.
	placeOrder(t, s, captain, 3, gin.H{"menuItemId": "grill-1", "quantity": 2})
	placeOrder(t, s, captain, 5,
		gin.H{"menuItemId": "grill-1", "quantity": 1},
		gin.H{"menuItemId": "grill-1", "quantity": 1},
	)
	// A singleton group that must not appear.
	placeOrder(t, s, captain, 8, gin.H{"menuItemId": "salad-1", "quantity": 1})

	w := doJSON(s, "GET", "/api/v1/kitchen/batch-suggestions", kitchen, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var suggestions []struct {
		MenuItemID    string   `json:"menuItemId"`
		TotalQuantity int      `json:"totalQuantity"`
		OrderIDs      []string `json:"orderIds"`
		TableNumbers  []int    `json:"tableNumbers"`
		CanBatch      bool     `json:"canBatch"`
		KitchenID     string   `json:"kitchenId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestions))
	require.Len(t, suggestions, 1)

	sg := suggestions[0]
	assert.Equal(t, "grill-1", sg.MenuItemID)
	assert.Equal(t, 4, sg.TotalQuantity)
	assert.ElementsMatch(t, []int{3, 5}, sg.TableNumbers)
	assert.True(t, sg.CanBatch)
	assert.Equal(t, "kitchen-main", sg.KitchenID)

	// Accept the suggestion: all grouped items move to cooking.
	w = doJSON(s, "POST", "/api/v1/kitchen/batch", kitchen, gin.H{
		"menuItemId": sg.MenuItemID,
		"orderIds":   sg.OrderIDs,
		"kitchenId":  sg.KitchenID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Success   bool     `json:"success"`
		Succeeded []string `json:"succeeded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Len(t, result.Succeeded, 3)

	// The group is gone from the next snapshot's suggestions.
	w = doJSON(s, "GET", "/api/v1/kitchen/batch-suggestions", kitchen, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestions))
	assert.Empty(t, suggestions)
}

func TestBatchStatusPartialFailure(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")
	kitchen := login(t, s, "kitchen")

	order := placeOrder(t, s, captain, 4,
		gin.H{"menuItemId": "grill-1", "quantity": 1},
		gin.H{"menuItemId": "beverage-1", "quantity": 1}, // other kitchen
	)
	ids := orderItemIDs(t, order)

	w := doJSON(s, "POST", "/api/v1/kitchen/items/status", kitchen,
		gin.H{"itemIds": append(ids, "ghost"), "status": "cooking"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Success   bool     `json:"success"`
		Succeeded []string `json:"succeeded"`
		Failed    []struct {
			ItemID string `json:"itemId"`
			Reason string `json:"reason"`
		} `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, []string{ids[0]}, result.Succeeded)
	assert.Len(t, result.Failed, 2)
}

func TestOrderRoutesRequireCaptainRole(t *testing.T) {
	s, _ := testServer(t)
	kitchen := login(t, s, "kitchen")

	w := doJSON(s, "POST", "/api/v1/orders", kitchen,
		gin.H{"tableNumber": 3, "items": []gin.H{{"menuItemId": "grill-1", "quantity": 1}}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatsRequiresManager(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")
	manager := login(t, s, "manager")

	w := doJSON(s, "GET", "/api/v1/stats", captain, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	placeOrder(t, s, captain, 3, gin.H{"menuItemId": "grill-1", "quantity": 1})

	w = doJSON(s, "GET", "/api/v1/stats", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		ActiveOrders int `json:"activeOrders"`
		PendingItems int `json:"pendingItems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.ActiveOrders)
	assert.Equal(t, 1, stats.PendingItems)
}

func TestPrintKOTSectionFilter(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")

	order := placeOrder(t, s, captain, 6,
		gin.H{"menuItemId": "grill-1", "quantity": 2},
		gin.H{"menuItemId": "beverage-1", "quantity": 1},
	)
	orderID := order["id"].(string)

	w := doJSON(s, "POST", "/api/v1/orders/"+orderID+"/print", captain, gin.H{"section": "grill"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Printed int `json:"printed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Printed, "only the grill line is on the grill KOT")

	w = doJSON(s, "POST", "/api/v1/orders/"+orderID+"/print", captain, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Printed)

	w = doJSON(s, "POST", "/api/v1/orders/"+orderID+"/print", captain, gin.H{"section": "sushi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteOrderFlow(t *testing.T) {
	s, _ := testServer(t)
	captain := login(t, s, "captain")
	manager := login(t, s, "manager")

	order := placeOrder(t, s, captain, 9, gin.H{"menuItemId": "salad-1", "quantity": 1})
	orderID := order["id"].(string)
	itemID := orderItemIDs(t, order)[0]

	w := doJSON(s, "POST", "/api/v1/orders/"+orderID+"/complete", captain, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unserved items block completion")

	for _, status := range []string{"cooking", "ready", "served"} {
		w = doJSON(s, "POST", fmt.Sprintf("/api/v1/kitchen/items/%s/status", itemID),
			manager, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(s, "POST", "/api/v1/orders/"+orderID+"/complete", captain, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Completed orders drop out of the active item snapshot.
	w = doJSON(s, "GET", "/api/v1/kitchen/items", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Empty(t, items)
}
