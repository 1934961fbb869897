package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyQuote is one day of OHLCV data for a security.
type DailyQuote struct {
	TsCode    string          `json:"ts_code"`
	TradeDate time.Time       `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	PreClose  decimal.Decimal `json:"pre_close"`
	Change    decimal.Decimal `json:"change"`
	PctChg    decimal.Decimal `json:"pct_chg"`
	Vol       decimal.Decimal `json:"vol"`    // lots of 100 shares
	Amount    decimal.Decimal `json:"amount"` // thousands of CNY
}
