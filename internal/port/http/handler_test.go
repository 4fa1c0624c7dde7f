package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelierline/storefront-cart/internal/adapter/catalog"
	"github.com/atelierline/storefront-cart/internal/adapter/memory"
	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/platform/logger"
	"github.com/atelierline/storefront-cart/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchProductByHandle(ctx context.Context, handle string) (*entity.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogClient) FetchProducts(ctx context.Context, first int) ([]entity.Product, error) {
	args := m.Called(ctx, first)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func newTestRouter(t *testing.T, catalogClient CatalogClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cartSvc := service.NewCartService(context.Background(), memory.NewSnapshotStore(), nil, logger.NoOp{})
	handler := NewHandler(catalogClient, cartSvc, logger.NoOp{})
	return NewRouter(handler, logger.NoOp{}, nil)
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const addMugBody = `{
	"productHandle": "ceramic-mug",
	"productTitle": "Ceramic Mug",
	"variantId": "v1",
	"variantTitle": "Glazed",
	"price": {"amount": "19.99", "currencyCode": "USD"},
	"quantity": 2,
	"selectedOptions": [{"name": "Finish", "value": "Glazed"}]
}`

func TestHandler_GetProduct(t *testing.T) {
	catalogClient := new(MockCatalogClient)
	catalogClient.On("FetchProductByHandle", mock.Anything, "ceramic-mug").
		Return(&entity.Product{Handle: "ceramic-mug", Title: "Ceramic Mug"}, nil).Once()

	router := newTestRouter(t, catalogClient)
	rec := doJSON(router, http.MethodGet, "/products/ceramic-mug", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"handle":"ceramic-mug"`)
	catalogClient.AssertExpectations(t)
}

func TestHandler_GetProduct_NotFound(t *testing.T) {
	catalogClient := new(MockCatalogClient)
	catalogClient.On("FetchProductByHandle", mock.Anything, "nonexistent").
		Return(nil, fmt.Errorf("%w: handle nonexistent", catalog.ErrNotFound)).Once()

	router := newTestRouter(t, catalogClient)
	rec := doJSON(router, http.MethodGet, "/products/nonexistent", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.FailureUnavailable))
}

func TestHandler_ListProducts_TransportError(t *testing.T) {
	catalogClient := new(MockCatalogClient)
	catalogClient.On("FetchProducts", mock.Anything, 12).
		Return(nil, fmt.Errorf("%w: connection refused", catalog.ErrTransport)).Once()

	router := newTestRouter(t, catalogClient)
	rec := doJSON(router, http.MethodGet, "/products", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.FailureNetworkIssue))
}

func TestHandler_AddCartItem(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))

	rec := doJSON(router, http.MethodPost, "/cart/items", addMugBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Outcome.OK)
	require.Len(t, envelope.Cart.LineItems, 1)
	assert.Equal(t, 2, envelope.Cart.LineItems[0].Quantity)
	assert.Equal(t, "39.98", envelope.Totals.Subtotal.Amount)
	assert.Equal(t, 2, envelope.Totals.ItemCount)
}

func TestHandler_AddCartItem_InvalidBody(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))

	rec := doJSON(router, http.MethodPost, "/cart/items", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AddCartItem_InvalidQuantity(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))

	body := strings.Replace(addMugBody, `"quantity": 2`, `"quantity": 0`, 1)
	rec := doJSON(router, http.MethodPost, "/cart/items", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(service.FailureInvalidSelection))
}

func TestHandler_AddCartItem_CurrencyMismatch(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))

	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/cart/items", addMugBody).Code)

	body := strings.Replace(addMugBody, `"currencyCode": "USD"`, `"currencyCode": "EUR"`, 1)
	body = strings.Replace(body, `"variantId": "v1"`, `"variantId": "v2"`, 1)
	rec := doJSON(router, http.MethodPost, "/cart/items", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_UpdateCartItem(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/cart/items", addMugBody).Code)

	rec := doJSON(router, http.MethodPatch, "/cart/items/v1", `{"quantity": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 5, envelope.Cart.LineItems[0].Quantity)
}

func TestHandler_UpdateCartItem_NegativeQuantity(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/cart/items", addMugBody).Code)

	rec := doJSON(router, http.MethodPatch, "/cart/items/v1", `{"quantity": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RemoveCartItem(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/cart/items", addMugBody).Code)

	rec := doJSON(router, http.MethodDelete, "/cart/items/v1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Cart.LineItems)
}

func TestHandler_ClearCart(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/cart/items", addMugBody).Code)

	rec := doJSON(router, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/cart", "")
	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Cart.LineItems)
	assert.Equal(t, 0, envelope.Totals.ItemCount)
}

func TestHandler_HealthCheck(t *testing.T) {
	router := newTestRouter(t, new(MockCatalogClient))

	rec := doJSON(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
