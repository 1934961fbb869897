package datasync

import "time"

// SyncType identifies one class of upstream data to keep fresh.
type SyncType string

const (
	SyncStockList       SyncType = "stock_list"
	SyncDailyQuote      SyncType = "daily_quote"
	SyncDailyIndicator  SyncType = "daily_indicator"
	SyncDividend        SyncType = "dividend"
	SyncFinancialReport SyncType = "financial_report"
)

// AllSyncTypes lists every sync type in the order SyncAll runs them.
// The stock list comes first so per-security syncs see fresh listings.
var AllSyncTypes = []SyncType{
	SyncStockList,
	SyncDailyQuote,
	SyncDailyIndicator,
	SyncDividend,
	SyncFinancialReport,
}

// Interval returns how long cached data of this type stays fresh.
// Reference data changes rarely; market data is refreshed daily.
func (t SyncType) Interval() time.Duration {
	switch t {
	case SyncStockList, SyncFinancialReport:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// NeedSync reports whether data last synced at the given time is stale.
// A zero last-sync time means the type has never been synced.
func NeedSync(lastSync, now time.Time, t SyncType) bool {
	if lastSync.IsZero() {
		return true
	}
	return now.Sub(lastSync) >= t.Interval()
}
