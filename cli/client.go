package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient talks to the Plate Flow REST API.
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
}

// NewApiClient creates a client against PLATEFLOW_API_URL, defaulting
// to a local server.
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("PLATEFLOW_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &ApiClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// DisplayItem mirrors the kitchen rail entry served by the API.
type DisplayItem struct {
	ID          string `json:"id"`
	MenuItemID  string `json:"menuItemId"`
	MenuItem    struct {
		Name        string `json:"name"`
		Section     string `json:"section"`
		KitchenID   string `json:"kitchenId"`
		CookingTime int    `json:"cookingTime"`
	} `json:"menuItem"`
	Quantity            int    `json:"quantity"`
	TableNumber         int    `json:"tableNumber"`
	Status              string `json:"status"`
	SpecialInstructions string `json:"specialInstructions"`
	Priority            int    `json:"priority"`
	Urgency             string `json:"urgency"`
	WaitMinutes         int    `json:"waitMinutes"`
}

// BatchSuggestion mirrors the API's batch-cooking proposal.
type BatchSuggestion struct {
	MenuItemID string `json:"menuItemId"`
	MenuItem   struct {
		Name string `json:"name"`
	} `json:"menuItem"`
	TotalQuantity int      `json:"totalQuantity"`
	OrderIDs      []string `json:"orderIds"`
	TableNumbers  []int    `json:"tableNumbers"`
	AvgWaitTime   float64  `json:"avgWaitTime"`
	CanBatch      bool     `json:"canBatch"`
	KitchenID     string   `json:"kitchenId"`
}

// Login authenticates and stores the session token on the client.
func (c *ApiClient) Login(username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do("POST", "/api/v1/auth/login",
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

// ListItems fetches the display-ordered kitchen rail.
func (c *ApiClient) ListItems(kitchenID string) ([]DisplayItem, error) {
	path := "/api/v1/kitchen/items"
	if kitchenID != "" {
		path += "?kitchenId=" + kitchenID
	}
	var items []DisplayItem
	if err := c.do("GET", path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListSuggestions fetches the current batch-cooking suggestions.
func (c *ApiClient) ListSuggestions() ([]BatchSuggestion, error) {
	var suggestions []BatchSuggestion
	if err := c.do("GET", "/api/v1/kitchen/batch-suggestions", nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// SetItemStatus advances one item to the given status.
func (c *ApiClient) SetItemStatus(itemID, status string) error {
	path := fmt.Sprintf("/api/v1/kitchen/items/%s/status", itemID)
	return c.do("POST", path, map[string]string{"status": status}, nil)
}

// StartBatch accepts a batch-cooking suggestion.
func (c *ApiClient) StartBatch(suggestion BatchSuggestion) error {
	return c.do("POST", "/api/v1/kitchen/batch", suggestion, nil)
}

func (c *ApiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
