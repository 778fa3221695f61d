package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/example/garment-storefront/pkg/cache"
)

// Client reads product display data from the remote catalog API. The
// cart never consults it; screens snapshot display fields from here
// into add-to-cart candidates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Service
	cacheTTL   time.Duration
}

func NewClient(baseURL string, c cache.Service, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

// ListProducts returns the full catalog listing.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	const key = "catalog:products"
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Product), nil
	}

	var products []Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}

	c.cache.Set(key, products, c.cacheTTL)
	return products, nil
}

// GetProduct returns a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	key := "catalog:product:" + id
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Product), nil
	}

	var product Product
	if err := c.get(ctx, "/products/"+id, &product); err != nil {
		return nil, err
	}

	c.cache.Set(key, &product, c.cacheTTL)
	return &product, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
