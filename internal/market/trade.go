package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// TradeRecord is a single executed trade. Records are immutable once
// created; the backtester only ever appends new ones.
type TradeRecord struct {
	TsCode     string          `json:"ts_code"`
	TradeDate  time.Time       `json:"trade_date"`
	Side       TradeSide       `json:"side"`
	Price      decimal.Decimal `json:"price"`
	Shares     decimal.Decimal `json:"shares"`
	Amount     decimal.Decimal `json:"amount"` // gross amount, price * shares
	Commission decimal.Decimal `json:"commission"`
	Tax        decimal.Decimal `json:"tax"` // stamp duty and other levies
}
