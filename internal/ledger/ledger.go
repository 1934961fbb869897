// Package ledger reconstructs share ownership and cash flows for a single
// security from its trade history and executed corporate actions.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/internal/xirr"
)

// ErrMissingQuote is returned when a mark-to-market lookup has no quote
// for the requested date. A silent zero here would corrupt return
// computation, so this fails loudly.
var ErrMissingQuote = fmt.Errorf("missing quote")

// CashFlowKind tags the origin of a cash-flow event.
type CashFlowKind string

const (
	FlowTrade    CashFlowKind = "trade"
	FlowDividend CashFlowKind = "dividend"
	FlowTerminal CashFlowKind = "terminal"
)

// CashFlowEvent is one signed, dated cash movement. Negative amounts are
// money put in, positive amounts are money taken out.
type CashFlowEvent struct {
	Date   time.Time
	Amount decimal.Decimal
	Kind   CashFlowKind
}

// Calculator replays trades and corporate actions to answer position and
// cash-flow questions as of any date. It holds no mutable state; every
// method is a deterministic function of the inputs it was built with.
type Calculator struct {
	trades    []market.TradeRecord
	quotes    map[string]market.DailyQuote
	dividends []market.Dividend
}

// NewCalculator builds a calculator over the given histories. The inputs
// are copied and sorted; callers may keep appending to their own slices.
func NewCalculator(trades []market.TradeRecord, quotes []market.DailyQuote, dividends []market.Dividend) *Calculator {
	c := &Calculator{
		trades:    make([]market.TradeRecord, len(trades)),
		quotes:    make(map[string]market.DailyQuote, len(quotes)),
		dividends: make([]market.Dividend, len(dividends)),
	}
	copy(c.trades, trades)
	copy(c.dividends, dividends)

	sort.SliceStable(c.trades, func(i, j int) bool {
		return c.trades[i].TradeDate.Before(c.trades[j].TradeDate)
	})
	sort.SliceStable(c.dividends, func(i, j int) bool {
		di, dj := c.dividends[i].ExDate, c.dividends[j].ExDate
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.Before(dj)
	})

	for _, q := range quotes {
		c.quotes[dayKey(q.TradeDate)] = q
	}
	return c
}

type event struct {
	date     time.Time
	trade    *market.TradeRecord
	dividend *market.Dividend
}

// PositionShares returns the number of shares held at end of asOf.
// Trades and executed corporate actions up to and including asOf are
// replayed in date order; on equal dates trades apply before actions.
// Share counts are exact decimals, never floored.
func (c *Calculator) PositionShares(asOf time.Time) decimal.Decimal {
	events := make([]event, 0, len(c.trades)+len(c.dividends))
	for i := range c.trades {
		t := &c.trades[i]
		if !t.TradeDate.After(asOf) {
			events = append(events, event{date: t.TradeDate, trade: t})
		}
	}
	for i := range c.dividends {
		d := &c.dividends[i]
		if d.Effective() && !d.ExDate.After(asOf) {
			events = append(events, event{date: d.ExDate, dividend: d})
		}
	}

	// Both sub-lists are pre-sorted and appended trade-list-first, so the
	// stable sort keeps trades ahead of same-day corporate actions.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	shares := decimal.Zero
	for _, ev := range events {
		switch {
		case ev.trade != nil:
			if ev.trade.Side == market.Buy {
				shares = shares.Add(ev.trade.Shares)
			} else {
				shares = shares.Sub(ev.trade.Shares)
			}
		case ev.dividend != nil:
			// Bonus then transfer, applied sequentially so they compound.
			shares = shares.Add(shares.Mul(ev.dividend.StkBoRate))
			shares = shares.Add(shares.Mul(ev.dividend.StkCoRate))
		}
	}
	return shares
}

// CashFlows returns all cash-flow events up to and including asOf, sorted
// by date ascending. Buys are negative (amount plus costs), sells positive
// (amount minus costs). Cash dividends pay out on the shares held the day
// before the ex-date, dated at the payment date.
func (c *Calculator) CashFlows(asOf time.Time) []CashFlowEvent {
	flows := make([]CashFlowEvent, 0, len(c.trades)+len(c.dividends))

	for _, t := range c.trades {
		if t.TradeDate.After(asOf) {
			continue
		}
		var amount decimal.Decimal
		if t.Side == market.Buy {
			amount = t.Amount.Add(t.Commission).Add(t.Tax).Neg()
		} else {
			amount = t.Amount.Sub(t.Commission).Sub(t.Tax)
		}
		flows = append(flows, CashFlowEvent{Date: t.TradeDate, Amount: amount, Kind: FlowTrade})
	}

	for _, d := range c.dividends {
		if !d.Effective() || d.ExDate.After(asOf) || !d.CashDiv.IsPositive() {
			continue
		}
		shares := c.PositionShares(d.ExDate.AddDate(0, 0, -1))
		if !shares.IsPositive() {
			continue
		}
		payDate := d.PayDate
		if payDate.IsZero() {
			payDate = d.ExDate
		}
		flows = append(flows, CashFlowEvent{
			Date:   payDate,
			Amount: shares.Mul(d.CashDiv),
			Kind:   FlowDividend,
		})
	}

	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Date.Before(flows[j].Date)
	})
	return flows
}

// NetCashFlow returns the sum of all cash-flow events up to asOf.
func (c *Calculator) NetCashFlow(asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, f := range c.CashFlows(asOf) {
		total = total.Add(f.Amount)
	}
	return total
}

// FinalValue marks the position to market at asOf using that day's close.
// A held position with no quote for the exact date is an error; an empty
// position is worth zero regardless of quote coverage.
func (c *Calculator) FinalValue(asOf time.Time) (decimal.Decimal, error) {
	shares := c.PositionShares(asOf)
	if !shares.IsPositive() {
		return decimal.Zero, nil
	}
	quote, ok := c.quotes[dayKey(asOf)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %s", ErrMissingQuote, asOf.Format("2006-01-02"))
	}
	return shares.Mul(quote.Close), nil
}

// AnnualizedReturn computes the XIRR of all cash flows up to asOf with
// the terminal market value appended as a closing inflow. With no trades
// the return is zero by definition.
func (c *Calculator) AnnualizedReturn(asOf time.Time) (decimal.Decimal, error) {
	if len(c.trades) == 0 {
		return decimal.Zero, nil
	}

	events := c.CashFlows(asOf)
	finalValue, err := c.FinalValue(asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if finalValue.IsPositive() {
		events = append(events, CashFlowEvent{Date: asOf, Amount: finalValue, Kind: FlowTerminal})
	}

	flows := make([]xirr.CashFlow, len(events))
	for i, ev := range events {
		flows[i] = xirr.CashFlow{Date: ev.Date, Amount: ev.Amount}
	}
	return xirr.AnnualizedRate(flows), nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
