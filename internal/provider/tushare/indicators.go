package tushare

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ashare/internal/market"
)

// FetchDailyIndicators fetches per-day valuation indicators for one security.
func (c *Client) FetchDailyIndicators(ctx context.Context, tsCode string, from, to time.Time) ([]market.DailyIndicator, error) {
	params := map[string]string{
		"ts_code":    tsCode,
		"start_date": from.Format(dateLayout),
		"end_date":   to.Format(dateLayout),
	}
	fields := "ts_code,trade_date,close,turnover_rate,turnover_rate_f,volume_ratio,pe,pe_ttm," +
		"pb,ps,ps_ttm,dv_ratio,dv_ttm,total_share,float_share,free_share,total_mv,circ_mv"

	rows, err := c.query(ctx, "daily_basic", params, fields)
	if err != nil {
		return nil, fmt.Errorf("fetch daily indicators for %s: %w", tsCode, err)
	}

	indicators := make([]market.DailyIndicator, 0, len(rows))
	for _, r := range rows {
		indicators = append(indicators, market.DailyIndicator{
			TsCode:        r.str("ts_code"),
			TradeDate:     r.date("trade_date"),
			Close:         r.dec("close"),
			TurnoverRate:  r.dec("turnover_rate"),
			TurnoverRateF: r.dec("turnover_rate_f"),
			VolumeRatio:   r.dec("volume_ratio"),
			PE:            r.dec("pe"),
			PETTM:         r.dec("pe_ttm"),
			PB:            r.dec("pb"),
			PS:            r.dec("ps"),
			PSTTM:         r.dec("ps_ttm"),
			DvRatio:       r.dec("dv_ratio"),
			DvTTM:         r.dec("dv_ttm"),
			TotalShare:    r.dec("total_share"),
			FloatShare:    r.dec("float_share"),
			FreeShare:     r.dec("free_share"),
			TotalMV:       r.dec("total_mv"),
			CircMV:        r.dec("circ_mv"),
		})
	}
	return indicators, nil
}
