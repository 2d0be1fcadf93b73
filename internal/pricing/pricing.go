// Package pricing resolves which size of a product is selected and what the
// customer pays for it.
//
// The total price of a product is its effective base price (the offer price
// while an offer is active, the base price otherwise) plus the additional
// price of the selected size. Everything here is pure: no I/O, safe for
// concurrent use.
package pricing

import (
	"errors"
	"fmt"

	"roti/internal/models"

	"github.com/shopspring/decimal"
)

// ErrSelectionNotFound is returned when the requested size is not one of the
// product's options. Callers usually fall back to ResolveInitialSelection.
var ErrSelectionNotFound = errors.New("size is not available for this product")

// Inputs holds everything needed to price one product.
type Inputs struct {
	BasePrice  decimal.Decimal
	IsOnOffer  bool
	OfferPrice *decimal.Decimal
	// Options are the product's sizes joined with their Size, in display order.
	Options []models.ProductSize
}

// InputsFor builds the pricing inputs of a stored product.
func InputsFor(product *models.Product, options []models.ProductSize) Inputs {
	return Inputs{
		BasePrice:  product.Price,
		IsOnOffer:  product.IsOnOffer,
		OfferPrice: product.OfferPrice,
		Options:    options,
	}
}

// Selection is the resolved size and the total price to charge.
type Selection struct {
	SizeID     *string         `json:"selected_size_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	// DefaultMissing is set when options exist but none is flagged default
	// and the first option was chosen instead.
	DefaultMissing bool `json:"-"`
}

// EffectiveBasePrice returns the offer price when the product is on offer
// with a non-zero offer price, otherwise the base price.
func EffectiveBasePrice(in Inputs) decimal.Decimal {
	if in.IsOnOffer && in.OfferPrice != nil && !in.OfferPrice.IsZero() {
		return *in.OfferPrice
	}
	return in.BasePrice
}

// ResolveInitialSelection picks the default option, or the first option when
// none is flagged default. Without options nothing is selected and the total
// is the effective base price.
func ResolveInitialSelection(in Inputs) Selection {
	base := EffectiveBasePrice(in)
	if len(in.Options) == 0 {
		return Selection{TotalPrice: base}
	}

	chosen, missing := &in.Options[0], true
	for i := range in.Options {
		if in.Options[i].IsDefault {
			chosen, missing = &in.Options[i], false
			break
		}
	}
	return selectionOf(base, chosen, missing)
}

// SelectSize prices the option whose size is sizeID.
func SelectSize(in Inputs, sizeID string) (Selection, error) {
	for i := range in.Options {
		if in.Options[i].SizeID == sizeID {
			return selectionOf(EffectiveBasePrice(in), &in.Options[i], false), nil
		}
	}
	return Selection{}, fmt.Errorf("size %s: %w", sizeID, ErrSelectionNotFound)
}

func selectionOf(base decimal.Decimal, option *models.ProductSize, missing bool) Selection {
	sizeID := option.SizeID
	return Selection{
		SizeID:         &sizeID,
		TotalPrice:     base.Add(option.Size.AdditionalPrice),
		DefaultMissing: missing,
	}
}
