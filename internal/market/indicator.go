package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyIndicator is one day of valuation indicators for a security.
type DailyIndicator struct {
	TsCode        string          `json:"ts_code"`
	TradeDate     time.Time       `json:"trade_date"`
	Close         decimal.Decimal `json:"close"`
	TurnoverRate  decimal.Decimal `json:"turnover_rate"`
	TurnoverRateF decimal.Decimal `json:"turnover_rate_f"`
	VolumeRatio   decimal.Decimal `json:"volume_ratio"`
	PE            decimal.Decimal `json:"pe"`
	PETTM         decimal.Decimal `json:"pe_ttm"`
	PB            decimal.Decimal `json:"pb"`
	PS            decimal.Decimal `json:"ps"`
	PSTTM         decimal.Decimal `json:"ps_ttm"`
	DvRatio       decimal.Decimal `json:"dv_ratio"`
	DvTTM         decimal.Decimal `json:"dv_ttm"`
	TotalShare    decimal.Decimal `json:"total_share"`
	FloatShare    decimal.Decimal `json:"float_share"`
	FreeShare     decimal.Decimal `json:"free_share"`
	TotalMV       decimal.Decimal `json:"total_mv"` // total market value, 万元
	CircMV        decimal.Decimal `json:"circ_mv"`
}
