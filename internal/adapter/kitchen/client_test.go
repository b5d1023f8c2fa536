package kitchen

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := NewHTTPClient(url, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if _, err := NewHTTPClient("://bad", logger); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("relative/path", logger); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestSelectRecipes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/recipes/random" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req selectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", req.Quantity)
		}
		recipes := DefaultRecipes()[:2]
		json.NewEncoder(w).Encode(selectResponse{Recipes: recipes})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	recipes, err := client.SelectRecipes(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].Name != "Margherita Pizza" {
		t.Errorf("unexpected recipe %s", recipes[0].Name)
	}
	if recipes[0].Ingredients["tomato"] != 3 {
		t.Errorf("unexpected ingredient map %v", recipes[0].Ingredients)
	}
}

func TestSelectRecipesEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(selectResponse{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.SelectRecipes(context.Background(), 1); err == nil {
		t.Fatal("expected error for empty recipe selection")
	}
}

func TestStartPreparation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/start-preparation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req preparationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.OrderID != "order-1" {
			t.Errorf("expected order id order-1, got %s", req.OrderID)
		}
		json.NewEncoder(w).Encode(preparationResponse{Success: true, PreparationTimeMinutes: 25})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	minutes, err := client.StartPreparation(context.Background(), "order-1", DefaultRecipes()[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 25 {
		t.Errorf("expected 25 minutes, got %d", minutes)
	}
}

func TestStartPreparationRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(preparationResponse{Success: false})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.StartPreparation(context.Background(), "order-1", nil); err == nil {
		t.Fatal("expected error when kitchen refuses")
	}
}

func TestKitchenErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.SelectRecipes(context.Background(), 1); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestDefaultRecipesCatalog(t *testing.T) {
	recipes := DefaultRecipes()
	if len(recipes) != 6 {
		t.Fatalf("expected 6 recipes, got %d", len(recipes))
	}
	for _, recipe := range recipes {
		if len(recipe.Ingredients) == 0 {
			t.Errorf("recipe %s has no ingredients", recipe.Name)
		}
		if recipe.PreparationTime <= 0 {
			t.Errorf("recipe %s has no preparation time", recipe.Name)
		}
	}
}
