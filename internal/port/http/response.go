package http

import (
	"net/http"

	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/service"
	"github.com/gin-gonic/gin"
)

type apiError struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type cartEnvelope struct {
	Cart    *entity.Cart      `json:"cart"`
	Totals  entity.CartTotals `json:"totals"`
	Outcome service.Outcome   `json:"outcome"`
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, errorEnvelope{Error: apiError{Message: message, Kind: kind}})
}

func failureStatus(kind service.FailureKind) int {
	switch kind {
	case service.FailureInvalidSelection:
		return http.StatusBadRequest
	case service.FailureUnavailable:
		return http.StatusNotFound
	case service.FailureCurrencyMismatch:
		return http.StatusConflict
	case service.FailureNetworkIssue:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondCart renders the cart plus the operation's outcome. The outcome's
// raw error never reaches the response body; it belongs to the logs.
func respondCart(c *gin.Context, cart *entity.Cart, outcome service.Outcome) {
	totals, err := cart.Totals()
	if err != nil {
		respondError(c, http.StatusInternalServerError, string(service.FailureInternal), "Something went wrong")
		return
	}

	status := http.StatusOK
	if !outcome.OK {
		status = failureStatus(outcome.Kind)
	}
	c.JSON(status, cartEnvelope{Cart: cart, Totals: totals, Outcome: outcome})
}
