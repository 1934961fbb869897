// Package valuation converts a historical free-cash-flow-to-firm trend
// into a market-value / intrinsic-value ratio.
package valuation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultHorizon is the number of projected periods in the DCF.
const DefaultHorizon = 3

// Model projects near-term FCFF and discounts it to an intrinsic value.
type Model struct {
	DiscountRate float64
	RiskFreeRate float64
	Horizon      int
}

// NewModel creates a model with the default projection horizon.
func NewModel(discountRate, riskFreeRate float64) *Model {
	return &Model{
		DiscountRate: discountRate,
		RiskFreeRate: riskFreeRate,
		Horizon:      DefaultHorizon,
	}
}

// Result is the outcome of one valuation.
type Result struct {
	// Ratio is market value / intrinsic value. Below 1 the market prices
	// the security under the model's value. 1.0 with a non-empty Reason
	// means the model declined to value and returned neutral.
	Ratio          float64
	GrowthRate     float64
	IntrinsicValue float64
	Reason         string
}

// Neutral reports whether the model substituted the neutral ratio.
func (r Result) Neutral() bool {
	return r.Reason != ""
}

// GrowthRate estimates the period-over-period FCFF growth rate from a
// series ordered most recent first. Rates deviating from the mean by more
// than two population standard deviations are discarded as outliers; if
// everything is discarded the unfiltered mean is used. Fewer than two
// values yield zero.
func (m *Model) GrowthRate(fcff []float64) float64 {
	if len(fcff) < 2 {
		return 0
	}

	rates := make([]float64, 0, len(fcff)-1)
	for i := 0; i+1 < len(fcff); i++ {
		if fcff[i+1] > 0 {
			rates = append(rates, fcff[i]/fcff[i+1]-1)
		}
	}
	if len(rates) == 0 {
		return 0
	}

	mean := stat.Mean(rates, nil)
	sigma := stat.PopStdDev(rates, nil)

	kept := make([]float64, 0, len(rates))
	for _, r := range rates {
		if math.Abs(r-mean) <= 2*sigma {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return mean
	}
	return stat.Mean(kept, nil)
}

// Ratio values the firm from its FCFF history (most recent first) and
// compares the latest market capitalization against it.
//
// Interim periods 1..horizon-1 compound at the estimated growth rate and
// discount at the discount rate. The horizon period is capitalized as a
// perpetuity over the risk-free rate and discounted at the horizon
// factor. That divisor is deliberate, not (discount - growth).
func (m *Model) Ratio(fcff []float64, marketValue float64) Result {
	if len(fcff) < 2 {
		return neutral(fmt.Sprintf("insufficient fcff history: have %d, need 2", len(fcff)))
	}
	if marketValue <= 0 {
		return neutral("market value not positive")
	}
	if m.RiskFreeRate <= 0 {
		return neutral("risk-free rate not positive")
	}

	growth := m.GrowthRate(fcff)
	latest := fcff[0]

	horizon := m.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	presentValue := 0.0
	for i := 1; i < horizon; i++ {
		future := latest * math.Pow(1+growth, float64(i))
		presentValue += future / math.Pow(1+m.DiscountRate, float64(i))
	}

	horizonFCFF := latest * math.Pow(1+growth, float64(horizon))
	terminalPV := horizonFCFF / m.RiskFreeRate / math.Pow(1+m.DiscountRate, float64(horizon))

	total := presentValue + terminalPV
	if total <= 0 || !isFinite(total) {
		return Result{
			Ratio:          1.0,
			GrowthRate:     growth,
			IntrinsicValue: total,
			Reason:         fmt.Sprintf("intrinsic value not positive: %.2f", total),
		}
	}

	return Result{
		Ratio:          marketValue / total,
		GrowthRate:     growth,
		IntrinsicValue: total,
	}
}

func neutral(reason string) Result {
	return Result{Ratio: 1.0, Reason: reason}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
