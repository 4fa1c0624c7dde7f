package service

import (
	"errors"

	"github.com/atelierline/storefront-cart/internal/adapter/catalog"
	"github.com/atelierline/storefront-cart/internal/domain/entity"
)

// FailureKind is the short, non-technical category a presentation layer
// renders. Raw error detail stays in Err for operators and logs.
type FailureKind string

const (
	FailureInvalidSelection FailureKind = "invalid_selection"
	FailureUnavailable      FailureKind = "unavailable"
	FailureCurrencyMismatch FailureKind = "currency_mismatch"
	FailureNetworkIssue     FailureKind = "network_issue"
	FailureInternal         FailureKind = "internal"
)

// Outcome is what every mutating operation hands back for the UI to render
// as a toast or banner. The store performs no presentation itself.
type Outcome struct {
	OK      bool        `json:"ok"`
	Context string      `json:"context,omitempty"`
	Kind    FailureKind `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
	Err     error       `json:"-"`
}

func Success(context string) Outcome {
	return Outcome{OK: true, Context: context}
}

// Failure classifies err into a user-facing kind and message.
func Failure(err error) Outcome {
	kind := FailureInternal
	message := "Something went wrong"

	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		kind = FailureInvalidSelection
		message = "Invalid selection"
	case errors.Is(err, entity.ErrLineNotFound), errors.Is(err, catalog.ErrNotFound):
		kind = FailureUnavailable
		message = "Item is unavailable"
	case errors.Is(err, entity.ErrCurrencyMismatch):
		kind = FailureCurrencyMismatch
		message = "Item cannot be combined with the current cart"
	case errors.Is(err, catalog.ErrTransport):
		kind = FailureNetworkIssue
		message = "Network issue, please try again"
	}

	return Outcome{OK: false, Kind: kind, Message: message, Err: err}
}
