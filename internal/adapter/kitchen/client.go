package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// Client exposes operations of the kitchen service.
type Client interface {
	// SelectRecipes asks the kitchen to pick one random recipe per portion.
	SelectRecipes(ctx context.Context, quantity int) ([]model.Recipe, error)
	// StartPreparation tells the kitchen to begin cooking. Completion arrives
	// later as an order-ready callback; the returned minutes are an estimate.
	StartPreparation(ctx context.Context, orderID string, recipes []model.Recipe) (int, error)
}

// HTTPClient implements Client via the kitchen HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type selectRequest struct {
	Quantity int `json:"quantity"`
}

type selectResponse struct {
	Recipes []model.Recipe `json:"recipes"`
}

type preparationRequest struct {
	OrderID         string         `json:"order_id"`
	SelectedRecipes []model.Recipe `json:"selected_recipes"`
}

type preparationResponse struct {
	Success                bool `json:"success"`
	PreparationTimeMinutes int  `json:"preparation_time_minutes"`
}

// NewHTTPClient creates the kitchen client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse kitchen url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("kitchen url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SelectRecipes queries the kitchen for a recipe selection.
func (c *HTTPClient) SelectRecipes(ctx context.Context, quantity int) ([]model.Recipe, error) {
	var data selectResponse
	if err := c.post(ctx, "/api/recipes/random", selectRequest{Quantity: quantity}, &data); err != nil {
		return nil, err
	}
	if len(data.Recipes) == 0 {
		return nil, fmt.Errorf("kitchen returned no recipes")
	}
	return data.Recipes, nil
}

// StartPreparation triggers cooking for an order.
func (c *HTTPClient) StartPreparation(ctx context.Context, orderID string, recipes []model.Recipe) (int, error) {
	var data preparationResponse
	payload := preparationRequest{OrderID: orderID, SelectedRecipes: recipes}
	if err := c.post(ctx, "/api/start-preparation", payload, &data); err != nil {
		return 0, err
	}
	if !data.Success {
		return 0, fmt.Errorf("kitchen refused preparation for order %s", orderID)
	}
	return data.PreparationTimeMinutes, nil
}

func (c *HTTPClient) post(ctx context.Context, route string, payload, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, route)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal kitchen request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("kitchen request failed",
			slog.String("route", route),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("kitchen error: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode kitchen response: %w", err)
	}
	return nil
}
