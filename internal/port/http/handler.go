package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/platform/logger"
	"github.com/atelierline/storefront-cart/internal/service"
	"github.com/gin-gonic/gin"
)

const defaultProductPageSize = 12

// CatalogClient is the slice of the catalog adapter the handlers consume.
type CatalogClient interface {
	FetchProductByHandle(ctx context.Context, handle string) (*entity.Product, error)
	FetchProducts(ctx context.Context, first int) ([]entity.Product, error)
}

type Handler struct {
	catalog CatalogClient
	cart    service.CartService
	log     logger.Logger
}

func NewHandler(catalogClient CatalogClient, cartSvc service.CartService, log logger.Logger) *Handler {
	return &Handler{
		catalog: catalogClient,
		cart:    cartSvc,
		log:     log,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListProducts(c *gin.Context) {
	first := defaultProductPageSize
	if raw := c.Query("first"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, string(service.FailureInvalidSelection), "Invalid page size")
			return
		}
		first = parsed
	}

	products, err := h.catalog.FetchProducts(c.Request.Context(), first)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	handle := c.Param("handle")

	product, err := h.catalog.FetchProductByHandle(c.Request.Context(), handle)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type addItemRequest struct {
	ProductHandle   string                  `json:"productHandle"`
	ProductTitle    string                  `json:"productTitle"`
	VariantID       string                  `json:"variantId"`
	VariantTitle    string                  `json:"variantTitle"`
	Price           entity.Money            `json:"price"`
	Quantity        int                     `json:"quantity"`
	SelectedOptions []entity.SelectedOption `json:"selectedOptions"`
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, string(service.FailureInvalidSelection), "Invalid request body")
		return
	}

	cart, outcome := h.cart.AddItem(c.Request.Context(), service.AddItemInput{
		ProductHandle:   req.ProductHandle,
		ProductTitle:    req.ProductTitle,
		VariantID:       req.VariantID,
		VariantTitle:    req.VariantTitle,
		Price:           req.Price,
		Quantity:        req.Quantity,
		SelectedOptions: req.SelectedOptions,
	})
	respondCart(c, cart, outcome)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, http.StatusBadRequest, string(service.FailureInvalidSelection), "Invalid request body")
		return
	}

	cart, outcome := h.cart.UpdateItemQuantity(c.Request.Context(), c.Param("variantId"), *req.Quantity)
	respondCart(c, cart, outcome)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, outcome := h.cart.RemoveItem(c.Request.Context(), c.Param("variantId"))
	respondCart(c, cart, outcome)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart := h.cart.GetCart(c.Request.Context())
	respondCart(c, cart, service.Success(""))
}

func (h *Handler) ClearCart(c *gin.Context) {
	cart, outcome := h.cart.ClearCart(c.Request.Context())
	respondCart(c, cart, outcome)
}

func (h *Handler) respondCatalogError(c *gin.Context, err error) {
	outcome := service.Failure(err)
	h.log.Warnf("Catalog request failed: %v", err)
	respondError(c, failureStatus(outcome.Kind), string(outcome.Kind), outcome.Message)
}
