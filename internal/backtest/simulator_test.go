package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ashare/internal/decision"
	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/pkg/logger"
)

func simDay(offset int) time.Time {
	base := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func quote(offset int, open, close float64) market.DailyQuote {
	return market.DailyQuote{
		TsCode:    "600900.SH",
		TradeDate: simDay(offset),
		Open:      decimal.NewFromFloat(open),
		Close:     decimal.NewFromFloat(close),
	}
}

// scriptedDecisions maps day offsets to actions; unlisted days hold.
func scriptedDecisions(script map[int]decision.Action) DecideFunc {
	return func(data *Data, date time.Time) decision.Evaluation {
		offset := int(date.Sub(simDay(0)).Hours() / 24)
		action, ok := script[offset]
		if !ok {
			action = decision.ActionHold
		}
		return decision.Evaluation{Action: action}
	}
}

func simConfig(startOffset, endOffset int, capital float64) Config {
	return Config{
		StartDate:      simDay(startOffset),
		EndDate:        simDay(endOffset),
		InitialCapital: decimal.NewFromFloat(capital),
		Decision:       decision.DefaultConfig(),
	}
}

func TestRunBuyThenSell(t *testing.T) {
	data := &Data{
		Stock: market.Stock{TsCode: "600900.SH"},
		Quotes: []market.DailyQuote{
			quote(0, 10, 10),
			quote(1, 11, 11),
			// offset 2 is not a trading day
			quote(3, 12, 12),
			quote(4, 12, 12),
		},
	}

	sim := NewSimulator(simConfig(0, 4, 100000), logger.NewNop()).
		WithDecideFunc(scriptedDecisions(map[int]decision.Action{
			0: decision.ActionBuy,
			3: decision.ActionSell,
		}))

	result, err := sim.Run(context.Background(), data)
	require.NoError(t, err)

	// Four trading days, the quoteless day skipped.
	require.Len(t, result.Days, 4)
	require.Len(t, result.Trades, 2)

	// Buy: all-in at price 10 in whole lots.
	buy := result.Trades[0]
	assert.Equal(t, market.Buy, buy.Side)
	assert.True(t, buy.Shares.Equal(decimal.NewFromInt(10000)), "got %s", buy.Shares)
	assert.True(t, buy.Price.Equal(decimal.NewFromInt(10)))

	day0 := result.Days[0]
	assert.Equal(t, decision.ActionBuy, day0.Action)
	assert.True(t, day0.Position.Equal(decimal.NewFromInt(10000)))
	assert.True(t, day0.Capital.IsZero(), "all cash deployed, got %s", day0.Capital)
	assert.True(t, day0.FinalValue.Equal(decimal.NewFromInt(100000)))
	assert.True(t, day0.TotalValue.Equal(decimal.NewFromInt(100000)))

	// Hold day: position marked at the new close.
	day1 := result.Days[1]
	assert.Equal(t, decision.ActionHold, day1.Action)
	assert.True(t, day1.Position.Equal(decimal.NewFromInt(10000)))
	assert.True(t, day1.FinalValue.Equal(decimal.NewFromInt(110000)))

	// Sell: whole position at price 12.
	sell := result.Trades[1]
	assert.Equal(t, market.Sell, sell.Side)
	assert.True(t, sell.Shares.Equal(decimal.NewFromInt(10000)))

	day2 := result.Days[2]
	assert.Equal(t, decision.ActionSell, day2.Action)
	assert.True(t, day2.Position.IsZero())
	assert.True(t, day2.Capital.Equal(decimal.NewFromInt(120000)), "got %s", day2.Capital)
	assert.True(t, day2.FinalValue.IsZero())
	assert.True(t, day2.TotalValue.Equal(decimal.NewFromInt(120000)))
	assert.True(t, day2.AnnualizedReturn.IsPositive())

	// Flat afterwards.
	day3 := result.Days[3]
	assert.Equal(t, decision.ActionHold, day3.Action)
	assert.True(t, day3.TotalValue.Equal(decimal.NewFromInt(120000)))
}

func TestRunPriceIsOpenCloseMidpoint(t *testing.T) {
	data := &Data{
		Stock:  market.Stock{TsCode: "600900.SH"},
		Quotes: []market.DailyQuote{quote(0, 10, 14)},
	}

	sim := NewSimulator(simConfig(0, 0, 100000), logger.NewNop()).
		WithDecideFunc(scriptedDecisions(map[int]decision.Action{0: decision.ActionBuy}))

	result, err := sim.Run(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	assert.True(t, result.Days[0].Price.Equal(decimal.NewFromInt(12)))
}

func TestRunBuySkippedWithoutLotCash(t *testing.T) {
	data := &Data{
		Stock:  market.Stock{TsCode: "600900.SH"},
		Quotes: []market.DailyQuote{quote(0, 10, 10)},
	}

	// 500 cannot afford a single 100-share lot at price 10.
	sim := NewSimulator(simConfig(0, 0, 500), logger.NewNop()).
		WithDecideFunc(scriptedDecisions(map[int]decision.Action{0: decision.ActionBuy}))

	result, err := sim.Run(context.Background(), data)
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
	assert.True(t, result.Days[0].Position.IsZero())
}

func TestRunSellWithoutPositionIsNoop(t *testing.T) {
	data := &Data{
		Stock:  market.Stock{TsCode: "600900.SH"},
		Quotes: []market.DailyQuote{quote(0, 10, 10)},
	}

	sim := NewSimulator(simConfig(0, 0, 100000), logger.NewNop()).
		WithDecideFunc(scriptedDecisions(map[int]decision.Action{0: decision.ActionSell}))

	result, err := sim.Run(context.Background(), data)
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestRunClipsStartToListDate(t *testing.T) {
	data := &Data{
		Stock: market.Stock{TsCode: "600900.SH", ListDate: simDay(2)},
		Quotes: []market.DailyQuote{
			quote(0, 10, 10),
			quote(1, 10, 10),
			quote(2, 10, 10),
		},
	}

	sim := NewSimulator(simConfig(0, 2, 100000), logger.NewNop()).
		WithDecideFunc(scriptedDecisions(nil))

	result, err := sim.Run(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	assert.True(t, result.Days[0].Date.Equal(simDay(2)))
}

func TestRunUnknownActionFails(t *testing.T) {
	data := &Data{
		Stock:  market.Stock{TsCode: "600900.SH"},
		Quotes: []market.DailyQuote{quote(0, 10, 10)},
	}

	sim := NewSimulator(simConfig(0, 0, 100000), logger.NewNop()).
		WithDecideFunc(func(*Data, time.Time) decision.Evaluation {
			return decision.Evaluation{Action: decision.Action("SHORT")}
		})

	_, err := sim.Run(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trade action")
}

func TestRunInvalidDateRange(t *testing.T) {
	sim := NewSimulator(simConfig(4, 0, 100000), logger.NewNop())

	_, err := sim.Run(context.Background(), &Data{Stock: market.Stock{TsCode: "600900.SH"}})
	require.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	data := &Data{
		Stock:  market.Stock{TsCode: "600900.SH"},
		Quotes: []market.DailyQuote{quote(0, 10, 10)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewSimulator(simConfig(0, 0, 100000), logger.NewNop())
	_, err := sim.Run(ctx, data)
	assert.ErrorIs(t, err, context.Canceled)
}
