// Package xirr solves the internal rate of return for irregular, dated
// cash-flow sequences.
package xirr

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// CashFlow is one signed, dated amount.
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

const (
	initialGuess  = 0.10
	maxIterations = 1000
	tolerance     = 1e-9
)

// AnnualizedRate computes the XIRR of the sequence, anchored at its
// earliest date: the rate r with sum(amount_i / (1+r)^(days_i/365)) = 0,
// solved by Newton's method with an analytic derivative.
//
// On failure to converge the result is 0; callers must treat 0 as
// "could not be computed", not as a genuine zero return. Sequences with
// fewer than two events return 0 without solving; a single signed flow
// has no root.
func AnnualizedRate(flows []CashFlow) decimal.Decimal {
	if len(flows) < 2 {
		return decimal.Zero
	}

	anchor := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(anchor) {
			anchor = f.Date
		}
	}

	amounts := make([]float64, len(flows))
	years := make([]float64, len(flows))
	for i, f := range flows {
		amounts[i], _ = f.Amount.Float64()
		years[i] = f.Date.Sub(anchor).Hours() / 24 / 365.0
	}

	rate := initialGuess
	for i := 0; i < maxIterations; i++ {
		npv := xnpv(rate, amounts, years)
		deriv := xnpvDeriv(rate, amounts, years)
		if !isFinite(npv) || !isFinite(deriv) || deriv == 0 {
			return decimal.Zero
		}

		next := rate - npv/deriv
		if !isFinite(next) || next <= -1 {
			return decimal.Zero
		}
		if math.Abs(next-rate) < tolerance {
			return decimal.NewFromFloat(next)
		}
		rate = next
	}

	// Iteration budget exhausted.
	return decimal.Zero
}

func xnpv(rate float64, amounts, years []float64) float64 {
	sum := 0.0
	for i, amount := range amounts {
		sum += amount / math.Pow(1+rate, years[i])
	}
	return sum
}

func xnpvDeriv(rate float64, amounts, years []float64) float64 {
	sum := 0.0
	for i, amount := range amounts {
		sum += -years[i] * amount / math.Pow(1+rate, years[i]+1)
	}
	return sum
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
