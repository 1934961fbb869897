package tushare

import (
	"context"
	"fmt"

	"github.com/wonny/ashare/internal/market"
)

// FetchStockList fetches the full listed-stock roster.
func (c *Client) FetchStockList(ctx context.Context) ([]market.Stock, error) {
	fields := "ts_code,symbol,name,area,industry,market,exchange,curr_type,list_status,list_date,delist_date,is_hs"

	rows, err := c.query(ctx, "stock_basic", map[string]string{"list_status": "L"}, fields)
	if err != nil {
		return nil, fmt.Errorf("fetch stock list: %w", err)
	}

	stocks := make([]market.Stock, 0, len(rows))
	for _, r := range rows {
		stocks = append(stocks, market.Stock{
			TsCode:     r.str("ts_code"),
			Symbol:     r.str("symbol"),
			Name:       r.str("name"),
			Area:       r.str("area"),
			Industry:   r.str("industry"),
			Market:     r.str("market"),
			Exchange:   r.str("exchange"),
			CurrType:   r.str("curr_type"),
			ListStatus: r.str("list_status"),
			ListDate:   r.date("list_date"),
			DelistDate: r.date("delist_date"),
			IsHS:       r.str("is_hs"),
		})
	}
	return stocks, nil
}
