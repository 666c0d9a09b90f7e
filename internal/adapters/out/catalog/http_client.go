// internal/adapters/out/catalog/http_client.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	proddom "storefront/internal/domain/product"
)

// HTTPClient fetches products from a read-only external catalog API
// (fakestoreapi-style JSON) so the back office can seed the local catalog.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// The upstream API carries no inventory, so imported products start with a
// fixed stock until an admin edits them.
const defaultImportStock = 10

// externalProduct mirrors the upstream JSON shape.
type externalProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// baseURL example:
// - https://fakestoreapi.com
func NewHTTPClient(baseURL string) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAll downloads the upstream catalog and converts it into domain
// products. Upstream entries that fail domain validation are skipped.
func (c *HTTPClient) FetchAll(ctx context.Context, now time.Time) ([]*proddom.Product, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog client is nil")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog client baseURL is empty")
	}

	url := c.baseURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return nil, fmt.Errorf("catalog fetch failed status=%d body=%s",
			res.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []externalProduct
	if err := json.NewDecoder(io.LimitReader(res.Body, 8<<20)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog fetch: decode: %w", err)
	}

	out := make([]*proddom.Product, 0, len(raw))
	for _, e := range raw {
		p, err := proddom.New(
			fmt.Sprintf("ext-%d", e.ID),
			e.Title,
			e.Price,
			e.Description,
			e.Category,
			e.Image,
			defaultImportStock,
			now,
		)
		if err != nil {
			continue
		}
		p.Rating = proddom.Rating{Average: e.Rating.Rate, Count: e.Rating.Count}
		out = append(out, p)
	}
	return out, nil
}
