package donations

import "math"

const (
	DefaultFeeRate  = 0.01
	DefaultFixedFee = 100.0
)

// FeeCalculator computes the platform fee charged on top of a chip-in.
// Pure and deterministic; callers must reject non-positive amounts before
// invoking it.
type FeeCalculator struct {
	Rate  float64
	Fixed float64
}

func NewFeeCalculator() FeeCalculator {
	return FeeCalculator{Rate: DefaultFeeRate, Fixed: DefaultFixedFee}
}

func (f FeeCalculator) Calculate(amount float64) float64 {
	return amount*f.Rate + f.Fixed
}

// MinorUnits converts a major-unit amount to the gateway's minor currency
// unit (kobo for NGN).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
