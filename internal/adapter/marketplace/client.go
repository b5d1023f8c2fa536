package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
)

const (
	maxRetries         = 3
	defaultBackoffBase = time.Second
	backoffCap         = 8 * time.Second
	defaultSupplier    = "Farmers Market"
)

// Client exposes procurement of single ingredients from the farmers market.
type Client interface {
	Purchase(ctx context.Context, ingredient string, quantity int) (*model.Purchase, error)
}

// HTTPClient implements Client against the external buy endpoint, protected
// by retry with exponential backoff and a circuit breaker.
type HTTPClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	breaker    *Breaker
	logger     *slog.Logger

	// backoffBase is scaled per attempt; tests shrink it.
	backoffBase time.Duration
}

// response mirrors the JSON payload of the farmers market API.
type response struct {
	QuantitySold int    `json:"quantitySold"`
	Supplier     string `json:"supplier,omitempty"`
}

// NewHTTPClient creates the marketplace client with default timeout.
func NewHTTPClient(endpoint string, breaker *Breaker, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse marketplace url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("marketplace url must be absolute")
	}
	return &HTTPClient{
		endpoint:    parsed,
		breaker:     breaker,
		logger:      logger,
		backoffBase: defaultBackoffBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Purchase buys up to quantity units of one ingredient. The external API
// accepts a single ingredient per request; "no stock" is a quantitySold of
// zero, not an error, and is not retried within the call.
func (c *HTTPClient) Purchase(ctx context.Context, ingredient string, quantity int) (*model.Purchase, error) {
	if !CanSupply(ingredient) {
		return nil, fmt.Errorf("%s: %w", ingredient, domainErrors.ErrInvalidIngredient)
	}
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if !c.breaker.Allow() {
		return nil, fmt.Errorf("breaker open: %w", domainErrors.ErrMarketplaceUnavailable)
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		data, err := c.buy(ctx, ingredient)
		if err != nil {
			c.breaker.Failure()
			c.logger.Warn("marketplace attempt failed",
				slog.String("ingredient", ingredient),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			if attempt < maxRetries {
				if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
					return nil, err
				}
			}
			continue
		}

		supplier := data.Supplier
		if supplier == "" {
			supplier = defaultSupplier
		}

		if data.QuantitySold == 0 {
			// Soft failure: the market is empty right now. Counts toward the
			// breaker but is surfaced as zero obtained instead of retried.
			c.breaker.Failure()
			return &model.Purchase{
				Ingredient: ingredient,
				Requested:  quantity,
				Obtained:   0,
				Supplier:   supplier,
				CreatedAt:  time.Now(),
			}, nil
		}

		c.breaker.Reset()
		obtained := data.QuantitySold
		if obtained > quantity {
			obtained = quantity
		}
		return &model.Purchase{
			Ingredient: ingredient,
			Requested:  quantity,
			Obtained:   obtained,
			Cost:       float64(obtained) * UnitPrice(ingredient),
			Supplier:   supplier,
			Success:    true,
			CreatedAt:  time.Now(),
		}, nil
	}

	return nil, fmt.Errorf("purchase %s failed after %d attempts: %w",
		ingredient, maxRetries, domainErrors.ErrMarketplaceUnavailable)
}

func (c *HTTPClient) buy(ctx context.Context, ingredient string) (*response, error) {
	endpoint := *c.endpoint
	query := endpoint.Query()
	query.Set("ingredient", ingredient)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("marketplace status %s: %s", resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode marketplace response: %w", err)
	}
	if data.QuantitySold < 0 {
		return nil, fmt.Errorf("marketplace sold negative quantity %d", data.QuantitySold)
	}
	return &data, nil
}

// backoff doubles per attempt: base*2, base*4, ... capped at backoffCap.
func (c *HTTPClient) backoff(attempt int) time.Duration {
	d := c.backoffBase << attempt
	if d > backoffCap {
		d = backoffCap
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
