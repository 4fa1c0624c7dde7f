package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/atelierline/storefront-cart/internal/app/config"
	"github.com/atelierline/storefront-cart/internal/domain/entity"
)

const (
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	defaultTimeout    = 10 * time.Second
)

const productFields = `
    handle
    title
    description
    images(first: 10) {
      edges {
        node {
          url
          altText
        }
      }
    }
    variants(first: 50) {
      edges {
        node {
          id
          title
          availableForSale
          selectedOptions {
            name
            value
          }
          price {
            amount
            currencyCode
          }
        }
      }
    }
    priceRange {
      minVariantPrice {
        amount
        currencyCode
      }
    }`

const productByHandleQuery = `
  query ProductByHandle($handle: String!) {
    product(handle: $handle) {` + productFields + `
    }
  }`

const productsQuery = `
  query Products($first: Int!) {
    products(first: $first) {
      edges {
        node {` + productFields + `
        }
      }
    }
  }`

// Client resolves product handles against a storefront GraphQL endpoint.
// It holds no state beyond the connection settings: no cache, no retries,
// no deduplication of concurrent calls for the same handle. Every call
// reflects the remote state at call time; freshness is the caller's problem.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

func NewClient(cfg config.CatalogConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("catalog endpoint is not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// FetchProductByHandle resolves a handle to a full product record. It
// returns ErrNotFound when the catalog has no matching product and
// ErrTransport on network or parse failure.
func (c *Client) FetchProductByHandle(ctx context.Context, handle string) (*entity.Product, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: handle cannot be empty", entity.ErrInvalidInput)
	}

	var payload struct {
		Product *productNode `json:"product"`
	}
	if err := c.query(ctx, productByHandleQuery, map[string]any{"handle": handle}, &payload); err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, fmt.Errorf("%w: handle %s", ErrNotFound, handle)
	}

	product := payload.Product.toEntity()
	return &product, nil
}

// FetchProducts returns the first n products for grid views, in catalog
// order. An empty catalog yields an empty slice, not an error.
func (c *Client) FetchProducts(ctx context.Context, first int) ([]entity.Product, error) {
	if first < 1 {
		return nil, fmt.Errorf("%w: first must be at least 1, got %d", entity.ErrInvalidInput, first)
	}

	var payload struct {
		Products productConnection `json:"products"`
	}
	if err := c.query(ctx, productsQuery, map[string]any{"first": first}, &payload); err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(payload.Products.Edges))
	for _, edge := range payload.Products.Edges {
		products = append(products, edge.Node.toEntity())
	}
	return products, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode query: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set(accessTokenHeader, c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrTransport, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrTransport, envelope.Errors[0].Message)
	}
	if envelope.Data == nil {
		return fmt.Errorf("%w: response has no data", ErrTransport)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrTransport, err)
	}
	return nil
}
