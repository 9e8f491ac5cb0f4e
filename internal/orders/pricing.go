package orders

import "github.com/shopspring/decimal"

var (
	DefaultFreeShippingThreshold = decimal.RequireFromString("50.00")
	DefaultFlatShippingFee       = decimal.RequireFromString("3.49")
)

// Pricing derives order totals. Values are exact internally and rounded to
// cents only in the returned Quote.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

type Quote struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		FlatShippingFee:       DefaultFlatShippingFee,
	}
}

// Compute prices items with the default threshold and fee.
func Compute(items []LineItem) (Quote, error) {
	return DefaultPricing().Compute(items)
}

func (p Pricing) Compute(items []LineItem) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, Validationf("items must be a non-empty list")
	}

	subtotal := decimal.Zero
	for i, it := range items {
		if !it.Price.IsPositive() {
			return Quote{}, Validationf("item %d (%q): price must be positive", i, it.Name)
		}
		if it.Quantity < 0 {
			return Quote{}, Validationf("item %d (%q): quantity must be positive", i, it.Name)
		}
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Units()))))
	}

	// threshold dibandingkan dengan subtotal exact, bukan yang sudah dibulatkan
	shipping := p.FlatShippingFee
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal:     subtotal.Round(2),
		ShippingCost: shipping.Round(2),
		Total:        subtotal.Add(shipping).Round(2),
	}, nil
}
