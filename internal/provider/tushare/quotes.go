package tushare

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ashare/internal/market"
)

// FetchDailyQuotes fetches OHLCV rows for one security over a date range.
func (c *Client) FetchDailyQuotes(ctx context.Context, tsCode string, from, to time.Time) ([]market.DailyQuote, error) {
	params := map[string]string{
		"ts_code":    tsCode,
		"start_date": from.Format(dateLayout),
		"end_date":   to.Format(dateLayout),
	}
	fields := "ts_code,trade_date,open,high,low,close,pre_close,change,pct_chg,vol,amount"

	rows, err := c.query(ctx, "daily", params, fields)
	if err != nil {
		return nil, fmt.Errorf("fetch daily quotes for %s: %w", tsCode, err)
	}

	quotes := make([]market.DailyQuote, 0, len(rows))
	for _, r := range rows {
		quotes = append(quotes, market.DailyQuote{
			TsCode:    r.str("ts_code"),
			TradeDate: r.date("trade_date"),
			Open:      r.dec("open"),
			High:      r.dec("high"),
			Low:       r.dec("low"),
			Close:     r.dec("close"),
			PreClose:  r.dec("pre_close"),
			Change:    r.dec("change"),
			PctChg:    r.dec("pct_chg"),
			Vol:       r.dec("vol"),
			Amount:    r.dec("amount"),
		})
	}
	return quotes, nil
}
