package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelierline/storefront-cart/internal/app/config"
	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
  "handle": "ceramic-mug",
  "title": "Ceramic Mug",
  "description": "Hand-thrown stoneware mug.",
  "images": {
    "edges": [
      {"node": {"url": "https://cdn.example.com/mug-1.jpg", "altText": "Mug front"}},
      {"node": {"url": "https://cdn.example.com/mug-2.jpg", "altText": ""}}
    ]
  },
  "variants": {
    "edges": [
      {
        "node": {
          "id": "gid://shop/ProductVariant/1",
          "title": "Glazed",
          "availableForSale": true,
          "selectedOptions": [{"name": "Finish", "value": "Glazed"}],
          "price": {"amount": "19.99", "currencyCode": "USD"}
        }
      },
      {
        "node": {
          "id": "gid://shop/ProductVariant/2",
          "title": "Matte",
          "availableForSale": false,
          "selectedOptions": [{"name": "Finish", "value": "Matte"}],
          "price": {"amount": "21.99", "currencyCode": "USD"}
        }
      }
    ]
  },
  "priceRange": {
    "minVariantPrice": {"amount": "19.99", "currencyCode": "USD"}
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.CatalogConfig{
		Endpoint:    server.URL,
		AccessToken: "test-token",
	})
	require.NoError(t, err)
	return client, server
}

func TestClient_FetchProductByHandle(t *testing.T) {
	var gotToken string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(accessTokenHeader)

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "ProductByHandle")
		assert.Equal(t, "ceramic-mug", req.Variables["handle"])

		w.Write([]byte(`{"data": {"product": ` + productJSON + `}}`))
	})

	product, err := client.FetchProductByHandle(context.Background(), "ceramic-mug")
	require.NoError(t, err)
	assert.Equal(t, "test-token", gotToken)

	assert.Equal(t, "ceramic-mug", product.Handle)
	assert.Equal(t, "Ceramic Mug", product.Title)

	require.Len(t, product.Images, 2)
	assert.Equal(t, "https://cdn.example.com/mug-1.jpg", product.Images[0].URL)
	assert.Equal(t, "Mug front", product.Images[0].AltText)

	require.Len(t, product.Variants, 2)
	first := product.Variants[0]
	assert.Equal(t, "gid://shop/ProductVariant/1", first.ID)
	assert.True(t, first.AvailableForSale)
	assert.Equal(t, entity.Money{Amount: "19.99", CurrencyCode: "USD"}, first.Price)
	require.Len(t, first.SelectedOptions, 1)
	assert.Equal(t, entity.SelectedOption{Name: "Finish", Value: "Glazed"}, first.SelectedOptions[0])
	assert.False(t, product.Variants[1].AvailableForSale)

	matte := product.Variant("gid://shop/ProductVariant/2")
	require.NotNil(t, matte)
	assert.Equal(t, "Matte", matte.Title)
	assert.Nil(t, product.Variant("gid://shop/ProductVariant/999"))

	assert.Equal(t, "19.99", product.PriceRange.MinVariantPrice.Amount)
}

func TestClient_FetchProductByHandle_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"product": null}}`))
	})

	_, err := client.FetchProductByHandle(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_FetchProductByHandle_EmptyHandle(t *testing.T) {
	requested := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
	})

	_, err := client.FetchProductByHandle(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.False(t, requested)
}

func TestClient_FetchProductByHandle_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchProductByHandle(context.Background(), "ceramic-mug")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_FetchProductByHandle_GraphQLErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "throttled"}]}`))
	})

	_, err := client.FetchProductByHandle(context.Background(), "ceramic-mug")
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "throttled")
}

func TestClient_FetchProductByHandle_MalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {`))
	})

	_, err := client.FetchProductByHandle(context.Background(), "ceramic-mug")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_FetchProductByHandle_Canceled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"product": null}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProductByHandle(ctx, "ceramic-mug")
	assert.Error(t, err)
}

func TestClient_FetchProducts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "products(first: $first)")
		assert.Equal(t, float64(2), req.Variables["first"])

		w.Write([]byte(`{"data": {"products": {"edges": [
			{"node": ` + productJSON + `},
			{"node": {"handle": "bare", "title": "Bare", "priceRange": {"minVariantPrice": {"amount": "5.00", "currencyCode": "USD"}}}}
		]}}}`))
	})

	products, err := client.FetchProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "ceramic-mug", products[0].Handle)

	// Absent edge collections mean "no data", not an error.
	assert.Empty(t, products[1].Images)
	assert.Empty(t, products[1].Variants)
	assert.Nil(t, products[1].FirstVariant())
}

func TestClient_FetchProducts_EmptyCatalog(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"products": {"edges": []}}}`))
	})

	products, err := client.FetchProducts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_FetchProducts_InvalidFirst(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.FetchProducts(context.Background(), 0)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(config.CatalogConfig{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "endpoint"))
}
