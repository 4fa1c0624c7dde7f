package entity

// SelectedOption is one name/value pair of a variant's configuration
// (e.g. Size=M). Order matters and is preserved as the catalog returns it.
type SelectedOption struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// ProductVariant is a purchasable configuration of a product. ID is opaque,
// globally unique, and the join key into cart line items; it must never be
// parsed for structure.
type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            Money            `json:"price"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	AvailableForSale bool             `json:"availableForSale"`
}

type ProductPriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

// Product is a transient catalog record, fetched per view and never mutated.
// Handle is the stable, URL-safe external lookup key.
type Product struct {
	Handle      string            `json:"handle"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Images      []ProductImage    `json:"images"`
	Variants    []ProductVariant  `json:"variants"`
	PriceRange  ProductPriceRange `json:"priceRange"`
}

// Variant returns the variant with the given id, or nil.
func (p *Product) Variant(variantID string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// FirstVariant returns the default variant used by grid-style add-to-cart
// flows, or nil when the product has no variants.
func (p *Product) FirstVariant() *ProductVariant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}
