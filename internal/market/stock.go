package market

import "time"

// Stock is one listed security.
type Stock struct {
	TsCode     string    `json:"ts_code"`
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name"`
	Area       string    `json:"area"`
	Industry   string    `json:"industry"`
	Market     string    `json:"market"`
	Exchange   string    `json:"exchange"`
	CurrType   string    `json:"curr_type"`
	ListStatus string    `json:"list_status"`
	ListDate   time.Time `json:"list_date"`
	DelistDate time.Time `json:"delist_date"`
	IsHS       string    `json:"is_hs"`
}
