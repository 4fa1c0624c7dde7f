package catalog

import "github.com/atelierline/storefront-cart/internal/domain/entity"

// The storefront API wraps every collection in the paginated edge shape
// `edges[].node`. Absent or empty edge collections mean "no data", never an
// error.

type moneyDTO struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type selectedOptionDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type variantNode struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Price            moneyDTO            `json:"price"`
	SelectedOptions  []selectedOptionDTO `json:"selectedOptions"`
	AvailableForSale bool                `json:"availableForSale"`
}

type imageConnection struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

type variantConnection struct {
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

type productNode struct {
	Handle      string            `json:"handle"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Images      imageConnection   `json:"images"`
	Variants    variantConnection `json:"variants"`
	PriceRange  struct {
		MinVariantPrice moneyDTO `json:"minVariantPrice"`
	} `json:"priceRange"`
}

type productConnection struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

func (m moneyDTO) toEntity() entity.Money {
	return entity.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

func (p productNode) toEntity() entity.Product {
	product := entity.Product{
		Handle:      p.Handle,
		Title:       p.Title,
		Description: p.Description,
		Images:      make([]entity.ProductImage, 0, len(p.Images.Edges)),
		Variants:    make([]entity.ProductVariant, 0, len(p.Variants.Edges)),
		PriceRange: entity.ProductPriceRange{
			MinVariantPrice: p.PriceRange.MinVariantPrice.toEntity(),
		},
	}

	for _, edge := range p.Images.Edges {
		product.Images = append(product.Images, entity.ProductImage{
			URL:     edge.Node.URL,
			AltText: edge.Node.AltText,
		})
	}

	for _, edge := range p.Variants.Edges {
		node := edge.Node
		variant := entity.ProductVariant{
			ID:               node.ID,
			Title:            node.Title,
			Price:            node.Price.toEntity(),
			SelectedOptions:  make([]entity.SelectedOption, 0, len(node.SelectedOptions)),
			AvailableForSale: node.AvailableForSale,
		}
		for _, opt := range node.SelectedOptions {
			variant.SelectedOptions = append(variant.SelectedOptions, entity.SelectedOption{
				Name:  opt.Name,
				Value: opt.Value,
			})
		}
		product.Variants = append(product.Variants, variant)
	}

	return product
}
