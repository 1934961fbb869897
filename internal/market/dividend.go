package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// DivStatus is the implementation status of a dividend / bonus-share plan.
// Only executed plans alter positions or entitle cash.
type DivStatus string

const (
	DivProposed DivStatus = "proposed"
	DivExecuted DivStatus = "executed"
	DivNone     DivStatus = "none"
	DivVoid     DivStatus = "void"
)

// Dividend is a corporate action: a stock bonus, a share transfer from
// capital reserves, a cash dividend, or any combination of the three.
// A zero ratio or per-share amount means that component is absent.
type Dividend struct {
	TsCode     string          `json:"ts_code"`
	EndDate    time.Time       `json:"end_date"` // fiscal period the plan belongs to
	AnnDate    time.Time       `json:"ann_date"`
	DivProc    DivStatus       `json:"div_proc"`
	StkDiv     decimal.Decimal `json:"stk_div"`     // total stock dividend per share
	StkBoRate  decimal.Decimal `json:"stk_bo_rate"` // bonus shares per share
	StkCoRate  decimal.Decimal `json:"stk_co_rate"` // transfer shares per share
	CashDiv    decimal.Decimal `json:"cash_div"`    // cash per share, after tax
	CashDivTax decimal.Decimal `json:"cash_div_tax"`
	RecordDate time.Time       `json:"record_date"`
	ExDate     time.Time       `json:"ex_date"` // record date for eligibility
	PayDate    time.Time       `json:"pay_date"`
	BaseDate   time.Time       `json:"base_date"`
	BaseShare  decimal.Decimal `json:"base_share"`
}

// Effective reports whether the action participates in position replay:
// it must be executed and carry an ex-date.
func (d *Dividend) Effective() bool {
	return d.DivProc == DivExecuted && !d.ExDate.IsZero()
}
