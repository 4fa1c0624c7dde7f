package http

import (
	"github.com/atelierline/storefront-cart/internal/platform/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, log logger.Logger, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	if len(allowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: allowOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", requestIDHeader},
		}))
	}

	router.GET("/healthz", h.HealthCheck)

	router.GET("/products", h.ListProducts)
	router.GET("/products/:handle", h.GetProduct)

	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddCartItem)
		cart.PATCH("/items/:variantId", h.UpdateCartItem)
		cart.DELETE("/items/:variantId", h.RemoveCartItem)
	}

	return router
}
