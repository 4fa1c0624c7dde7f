package entity

import (
	"fmt"
	"time"
)

// CartLineItem is one cart entry: a variant plus the quantity of it selected.
// Price and SelectedOptions are snapshots captured when the variant was first
// added; they are deliberately not refreshed on later adds of the same
// variant, so a price change mid-session cannot silently alter the cart.
type CartLineItem struct {
	VariantID       string           `json:"variantId" bson:"variantId"`
	ProductHandle   string           `json:"productHandle" bson:"productHandle"`
	ProductTitle    string           `json:"productTitle" bson:"productTitle"`
	VariantTitle    string           `json:"variantTitle" bson:"variantTitle"`
	Price           Money            `json:"price" bson:"price"`
	Quantity        int              `json:"quantity" bson:"quantity"`
	SelectedOptions []SelectedOption `json:"selectedOptions" bson:"selectedOptions"`
}

func NewCartLineItem(variantID string, quantity int, price Money) (*CartLineItem, error) {
	if variantID == "" {
		return nil, fmt.Errorf("%w: variant id cannot be empty", ErrInvalidInput)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, quantity)
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}
	return &CartLineItem{VariantID: variantID, Quantity: quantity, Price: price}, nil
}

// CartTotals is the derived read model of a cart.
type CartTotals struct {
	Subtotal  Money `json:"subtotal"`
	ItemCount int   `json:"itemCount"`
}

// Cart is the sole mutable aggregate: an ordered sequence of line items with
// at most one entry per variant id. It holds no derived state; totals are
// recomputed on demand so they can never drift from the lines.
type Cart struct {
	LineItems []CartLineItem `json:"lineItems" bson:"lineItems"`
	UpdatedAt time.Time      `json:"-" bson:"updatedAt"`
}

func NewCart() *Cart {
	return &Cart{LineItems: make([]CartLineItem, 0)}
}

// Currency is the cart's established currency: the currency of the first
// line item, or empty for an empty cart. Clearing the cart resets it.
func (c *Cart) Currency() string {
	if len(c.LineItems) == 0 {
		return ""
	}
	return c.LineItems[0].Price.CurrencyCode
}

func (c *Cart) GetLine(variantID string) (*CartLineItem, int) {
	for i := range c.LineItems {
		if c.LineItems[i].VariantID == variantID {
			return &c.LineItems[i], i
		}
	}
	return nil, -1
}

// AddLine inserts the item in insertion order, or increments the quantity of
// an existing line for the same variant. The existing line's price and
// options snapshots win over the incoming ones.
func (c *Cart) AddLine(item CartLineItem) error {
	if item.VariantID == "" {
		return fmt.Errorf("%w: variant id cannot be empty", ErrInvalidInput)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, item.Quantity)
	}
	if err := item.Price.Validate(); err != nil {
		return err
	}
	if cur := c.Currency(); cur != "" && item.Price.CurrencyCode != cur {
		return fmt.Errorf("%w: cart is in %s, item is in %s", ErrCurrencyMismatch, cur, item.Price.CurrencyCode)
	}

	if line, _ := c.GetLine(item.VariantID); line != nil {
		line.Quantity += item.Quantity
	} else {
		c.LineItems = append(c.LineItems, item)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetLineQuantity sets a line's quantity exactly. Zero removes the line and
// is a no-op on an absent variant, mirroring RemoveLine's idempotence; a
// negative quantity is rejected; any other quantity for an absent variant is
// ErrLineNotFound.
func (c *Cart) SetLineQuantity(variantID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidInput, quantity)
	}
	if quantity == 0 {
		c.RemoveLine(variantID)
		return nil
	}

	line, _ := c.GetLine(variantID)
	if line == nil {
		return fmt.Errorf("%w: variant %s", ErrLineNotFound, variantID)
	}
	line.Quantity = quantity
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveLine drops the line for the variant. Removing an absent variant is
// not an error.
func (c *Cart) RemoveLine(variantID string) {
	_, index := c.GetLine(variantID)
	if index == -1 {
		return
	}
	c.LineItems = append(c.LineItems[:index], c.LineItems[index+1:]...)
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) Clear() {
	c.LineItems = make([]CartLineItem, 0)
	c.UpdatedAt = time.Now().UTC()
}

// Validate checks that every line holds values the cart could have produced
// itself: a non-empty variant id, a positive quantity, a valid price, no
// duplicate variants, and a single currency. Persisted snapshots can be
// rewritten by other writers, so a loaded cart is untrusted until it passes.
func (c *Cart) Validate() error {
	seen := make(map[string]struct{}, len(c.LineItems))
	for _, line := range c.LineItems {
		if line.VariantID == "" {
			return fmt.Errorf("%w: variant id cannot be empty", ErrInvalidInput)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, line.Quantity)
		}
		if err := line.Price.Validate(); err != nil {
			return err
		}
		if _, dup := seen[line.VariantID]; dup {
			return fmt.Errorf("%w: duplicate line for variant %s", ErrInvalidInput, line.VariantID)
		}
		seen[line.VariantID] = struct{}{}
		if cur := c.Currency(); line.Price.CurrencyCode != cur {
			return fmt.Errorf("%w: cart is in %s, line %s is in %s", ErrCurrencyMismatch, cur, line.VariantID, line.Price.CurrencyCode)
		}
	}
	return nil
}

// Totals recomputes subtotal and item count from the current lines. All
// lines share the cart's established currency, so summation is plain
// decimal addition; an empty cart totals to zero with no currency.
func (c *Cart) Totals() (CartTotals, error) {
	subtotal := ZeroMoney(c.Currency())
	count := 0
	for _, line := range c.LineItems {
		lineTotal, err := line.Price.Mul(line.Quantity)
		if err != nil {
			return CartTotals{}, err
		}
		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			return CartTotals{}, err
		}
		count += line.Quantity
	}
	return CartTotals{Subtotal: subtotal, ItemCount: count}, nil
}

// Clone returns a deep copy. The store hands copies out so callers can never
// reach the aggregate it owns.
func (c *Cart) Clone() *Cart {
	cp := &Cart{
		LineItems: make([]CartLineItem, len(c.LineItems)),
		UpdatedAt: c.UpdatedAt,
	}
	copy(cp.LineItems, c.LineItems)
	for i := range cp.LineItems {
		opts := make([]SelectedOption, len(c.LineItems[i].SelectedOptions))
		copy(opts, c.LineItems[i].SelectedOptions)
		cp.LineItems[i].SelectedOptions = opts
	}
	return cp
}
