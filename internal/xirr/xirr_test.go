package xirr

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAnnualizedRateOneYearGain(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{
		{Date: start, Amount: decimal.NewFromInt(-10000)},
		{Date: start.AddDate(0, 0, 365), Amount: decimal.NewFromInt(11000)},
	}

	rate := AnnualizedRate(flows)
	got, _ := rate.Float64()
	assert.InDelta(t, 0.10, got, 0.001, "10%% gain over exactly one year")
}

func TestAnnualizedRateTwoYearGain(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{
		{Date: start, Amount: decimal.NewFromInt(-10000)},
		{Date: start.AddDate(0, 0, 730), Amount: decimal.NewFromInt(12100)},
	}

	// 21% over two years compounds to about 10% per year.
	rate := AnnualizedRate(flows)
	got, _ := rate.Float64()
	assert.InDelta(t, 0.10, got, 0.001)
}

func TestAnnualizedRateLoss(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{
		{Date: start, Amount: decimal.NewFromInt(-10000)},
		{Date: start.AddDate(0, 0, 365), Amount: decimal.NewFromInt(9000)},
	}

	rate := AnnualizedRate(flows)
	got, _ := rate.Float64()
	assert.InDelta(t, -0.10, got, 0.001)
}

func TestAnnualizedRateIntermediateFlows(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{
		{Date: start, Amount: decimal.NewFromInt(-10000)},
		{Date: start.AddDate(0, 6, 0), Amount: decimal.NewFromInt(500)},
		{Date: start.AddDate(1, 0, 0), Amount: decimal.NewFromInt(10500)},
	}

	rate := AnnualizedRate(flows)
	assert.True(t, rate.IsPositive(), "got %s", rate)
}

func TestAnnualizedRateDegenerateInputs(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// Fewer than two flows cannot define a rate.
	assert.True(t, AnnualizedRate(nil).IsZero())
	assert.True(t, AnnualizedRate([]CashFlow{
		{Date: start, Amount: decimal.NewFromInt(-10000)},
	}).IsZero())

	// All flows the same sign never converge; the failure is silent zero.
	assert.True(t, AnnualizedRate([]CashFlow{
		{Date: start, Amount: decimal.NewFromInt(100)},
		{Date: start.AddDate(0, 0, 365), Amount: decimal.NewFromInt(100)},
	}).IsZero())
}

func TestAnnualizedRateOrderIndependent(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	forward := []CashFlow{
		{Date: start, Amount: decimal.NewFromInt(-10000)},
		{Date: start.AddDate(0, 0, 365), Amount: decimal.NewFromInt(11000)},
	}
	reversed := []CashFlow{forward[1], forward[0]}

	a, _ := AnnualizedRate(forward).Float64()
	b, _ := AnnualizedRate(reversed).Float64()
	assert.InDelta(t, a, b, 1e-9)
}
