// Package pricing provides the pure pricing and currency calculations.
// Both functions take everything they need as parameters; there is no
// ambient rate or margin state.
package pricing

import (
	"github.com/shopspring/decimal"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/types"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ToNGN converts a USD amount to NGN at the given exchange rate.
func ToNGN(usd, rate types.Money) types.Money {
	return usd.Mul(rate)
}

// Recommend computes a selling price from production cost and a margin
// percentage: cost * (1 + percent/100). Negative percentages are a
// validation error; there is no other clamping.
func Recommend(productionCost, marginPercent types.Money) (types.Money, error) {
	if marginPercent.IsNegative() {
		return types.Zero(), apperror.NewValidation("margin percent cannot be negative").
			WithDetail("margin_percent", marginPercent.String())
	}
	return productionCost.Mul(one.Add(marginPercent.Div(hundred))), nil
}
