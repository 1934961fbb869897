// Package backtest replays the decision engine day by day over a
// historical window for a single security.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/ashare/internal/decision"
	"github.com/wonny/ashare/internal/ledger"
	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/pkg/logger"
)

// lotSize is the minimum tradable increment; synthetic buys round down to it.
var lotSize = decimal.NewFromInt(100)

// Config holds the simulation parameters.
type Config struct {
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital decimal.Decimal
	Decision       decision.Config
}

// Data is the fully materialized history the simulation runs over.
type Data struct {
	Stock      market.Stock
	Quotes     []market.DailyQuote
	Indicators []market.DailyIndicator
	Dividends  []market.Dividend
	Reports    []market.FinancialReport
}

// DayResult is one row of the per-day output series.
type DayResult struct {
	Date              time.Time
	Price             decimal.Decimal
	Action            decision.Action
	YesterdayPosition decimal.Decimal
	YesterdayCapital  decimal.Decimal
	Position          decimal.Decimal
	Capital           decimal.Decimal
	NetCashFlow       decimal.Decimal
	FinalValue        decimal.Decimal
	TotalValue        decimal.Decimal
	AnnualizedReturn  decimal.Decimal
}

// Result is a finished simulation: the per-day series and the synthetic
// trade ledger the run accumulated.
type Result struct {
	TsCode string
	Days   []DayResult
	Trades []market.TradeRecord
}

// DecideFunc produces a trade action for one evaluation date. The
// default implementation builds a fresh decision.Trader per day; tests
// may substitute a scripted one.
type DecideFunc func(data *Data, date time.Time) decision.Evaluation

// Simulator drives a fully-allocated all-in/all-out strategy across a
// calendar-day range. The running trade ledger is the only state carried
// between days.
type Simulator struct {
	cfg    Config
	log    *logger.Logger
	decide DecideFunc
}

// NewSimulator creates a simulator with the real decision engine.
func NewSimulator(cfg Config, log *logger.Logger) *Simulator {
	s := &Simulator{cfg: cfg, log: log}
	s.decide = func(data *Data, date time.Time) decision.Evaluation {
		trader := decision.NewTrader(cfg.Decision, log,
			data.Indicators, data.Quotes, data.Dividends, data.Reports, date)
		return trader.Decide()
	}
	return s
}

// WithDecideFunc overrides the decision engine. Intended for tests.
func (s *Simulator) WithDecideFunc(fn DecideFunc) *Simulator {
	s.decide = fn
	return s
}

// Run executes the simulation. Days without a quote are skipped; a day
// with a quote but a failing mark-to-market aborts the run because the
// return series would be corrupt.
func (s *Simulator) Run(ctx context.Context, data *Data) (*Result, error) {
	if s.cfg.EndDate.Before(s.cfg.StartDate) {
		return nil, fmt.Errorf("end date %s before start date %s",
			s.cfg.EndDate.Format("2006-01-02"), s.cfg.StartDate.Format("2006-01-02"))
	}

	start := s.cfg.StartDate
	if !data.Stock.ListDate.IsZero() && start.Before(data.Stock.ListDate) {
		start = data.Stock.ListDate
	}

	s.log.WithFields(map[string]interface{}{
		"ts_code":         data.Stock.TsCode,
		"start_date":      start.Format("2006-01-02"),
		"end_date":        s.cfg.EndDate.Format("2006-01-02"),
		"initial_capital": s.cfg.InitialCapital.String(),
	}).Info("Starting backtest")

	quotesByDay := make(map[string]market.DailyQuote, len(data.Quotes))
	for _, q := range data.Quotes {
		quotesByDay[q.TradeDate.Format("2006-01-02")] = q
	}

	result := &Result{TsCode: data.Stock.TsCode}
	trades := make([]market.TradeRecord, 0)

	for day := start; !day.After(s.cfg.EndDate); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		quote, ok := quotesByDay[day.Format("2006-01-02")]
		if !ok {
			continue // not a trading day
		}
		price := quote.Open.Add(quote.Close).Div(decimal.NewFromInt(2))

		yesterday := day.AddDate(0, 0, -1)
		baseline := ledger.NewCalculator(trades, data.Quotes, data.Dividends)
		yesterdayPosition := baseline.PositionShares(yesterday)
		yesterdayCapital := s.cfg.InitialCapital.Add(baseline.NetCashFlow(yesterday))

		eval := s.decide(data, day)

		var err error
		trades, err = s.execute(eval.Action, data.Stock.TsCode, day, price,
			yesterdayPosition, yesterdayCapital, trades)
		if err != nil {
			return nil, err
		}

		today := ledger.NewCalculator(trades, data.Quotes, data.Dividends)
		netCashFlow := today.NetCashFlow(day)
		finalValue, err := today.FinalValue(day)
		if err != nil {
			return nil, fmt.Errorf("mark to market on %s: %w", day.Format("2006-01-02"), err)
		}
		annualized, err := today.AnnualizedReturn(day)
		if err != nil {
			return nil, fmt.Errorf("annualized return on %s: %w", day.Format("2006-01-02"), err)
		}

		result.Days = append(result.Days, DayResult{
			Date:              day,
			Price:             price,
			Action:            eval.Action,
			YesterdayPosition: yesterdayPosition,
			YesterdayCapital:  yesterdayCapital,
			Position:          today.PositionShares(day),
			Capital:           s.cfg.InitialCapital.Add(netCashFlow),
			NetCashFlow:       netCashFlow,
			FinalValue:        finalValue,
			TotalValue:        s.cfg.InitialCapital.Add(netCashFlow).Add(finalValue),
			AnnualizedReturn:  annualized,
		})
	}

	result.Trades = trades

	s.log.WithFields(map[string]interface{}{
		"ts_code": data.Stock.TsCode,
		"days":    len(result.Days),
		"trades":  len(result.Trades),
	}).Info("Backtest completed")

	return result, nil
}

// execute turns the day's action into at most one synthetic trade and
// returns the extended ledger.
func (s *Simulator) execute(
	action decision.Action,
	tsCode string,
	day time.Time,
	price decimal.Decimal,
	position decimal.Decimal,
	capital decimal.Decimal,
	trades []market.TradeRecord,
) ([]market.TradeRecord, error) {
	switch action {
	case decision.ActionBuy:
		// Largest whole-lot purchase yesterday's cash affords.
		shares := capital.Div(price).Div(lotSize).Floor().Mul(lotSize)
		if !shares.IsPositive() {
			return trades, nil
		}
		trade := market.TradeRecord{
			TsCode:     tsCode,
			TradeDate:  day,
			Side:       market.Buy,
			Price:      price,
			Shares:     shares,
			Amount:     price.Mul(shares),
			Commission: decimal.Zero,
			Tax:        decimal.Zero,
		}
		s.logTrade(trade)
		return append(trades, trade), nil

	case decision.ActionSell:
		if !position.IsPositive() {
			return trades, nil
		}
		trade := market.TradeRecord{
			TsCode:     tsCode,
			TradeDate:  day,
			Side:       market.Sell,
			Price:      price,
			Shares:     position,
			Amount:     price.Mul(position),
			Commission: decimal.Zero,
			Tax:        decimal.Zero,
		}
		s.logTrade(trade)
		return append(trades, trade), nil

	case decision.ActionHold:
		return trades, nil

	default:
		return nil, fmt.Errorf("unknown trade action %q", action)
	}
}

func (s *Simulator) logTrade(t market.TradeRecord) {
	s.log.WithFields(map[string]interface{}{
		"ts_code": t.TsCode,
		"date":    t.TradeDate.Format("2006-01-02"),
		"side":    string(t.Side),
		"price":   t.Price.String(),
		"shares":  t.Shares.String(),
	}).Info("Synthetic trade executed")
}
