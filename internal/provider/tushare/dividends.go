package tushare

import (
	"context"
	"fmt"

	"github.com/wonny/ashare/internal/market"
)

// divProcStatus maps the provider's implementation-progress labels onto
// the internal status enum. Unknown labels become void so they never
// participate in replay.
func divProcStatus(proc string) market.DivStatus {
	switch proc {
	case "实施":
		return market.DivExecuted
	case "预案", "股东大会通过":
		return market.DivProposed
	case "不分配":
		return market.DivNone
	default:
		return market.DivVoid
	}
}

// FetchDividends fetches the dividend / bonus-share history for one security.
func (c *Client) FetchDividends(ctx context.Context, tsCode string) ([]market.Dividend, error) {
	params := map[string]string{"ts_code": tsCode}
	fields := "ts_code,end_date,ann_date,div_proc,stk_div,stk_bo_rate,stk_co_rate," +
		"cash_div,cash_div_tax,record_date,ex_date,pay_date,base_date,base_share"

	rows, err := c.query(ctx, "dividend", params, fields)
	if err != nil {
		return nil, fmt.Errorf("fetch dividends for %s: %w", tsCode, err)
	}

	dividends := make([]market.Dividend, 0, len(rows))
	for _, r := range rows {
		dividends = append(dividends, market.Dividend{
			TsCode:     r.str("ts_code"),
			EndDate:    r.date("end_date"),
			AnnDate:    r.date("ann_date"),
			DivProc:    divProcStatus(r.str("div_proc")),
			StkDiv:     r.dec("stk_div"),
			StkBoRate:  r.dec("stk_bo_rate"),
			StkCoRate:  r.dec("stk_co_rate"),
			CashDiv:    r.dec("cash_div"),
			CashDivTax: r.dec("cash_div_tax"),
			RecordDate: r.date("record_date"),
			ExDate:     r.date("ex_date"),
			PayDate:    r.date("pay_date"),
			BaseDate:   r.date("base_date"),
			BaseShare:  r.dec("base_share"),
		})
	}
	return dividends, nil
}
