package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reporting period types as delivered by the provider.
const (
	EndTypeQ1     = "1"
	EndTypeHalf   = "2"
	EndTypeQ3     = "3"
	EndTypeAnnual = "4"
)

// IncomeStatement holds income-statement line items for one period.
// A nil field was not reported for that period.
type IncomeStatement struct {
	BasicEPS      *decimal.Decimal `json:"basic_eps,omitempty"`
	DilutedEPS    *decimal.Decimal `json:"diluted_eps,omitempty"`
	TotalRevenue  *decimal.Decimal `json:"total_revenue,omitempty"`
	Revenue       *decimal.Decimal `json:"revenue,omitempty"`
	TotalCogs     *decimal.Decimal `json:"total_cogs,omitempty"`
	OperCost      *decimal.Decimal `json:"oper_cost,omitempty"`
	SellExp       *decimal.Decimal `json:"sell_exp,omitempty"`
	AdminExp      *decimal.Decimal `json:"admin_exp,omitempty"`
	FinExp        *decimal.Decimal `json:"fin_exp,omitempty"`
	RdExp         *decimal.Decimal `json:"rd_exp,omitempty"`
	OperateProfit *decimal.Decimal `json:"operate_profit,omitempty"`
	NonOperIncome *decimal.Decimal `json:"non_oper_income,omitempty"`
	NonOperExp    *decimal.Decimal `json:"non_oper_exp,omitempty"`
	TotalProfit   *decimal.Decimal `json:"total_profit,omitempty"`
	IncomeTax     *decimal.Decimal `json:"income_tax,omitempty"`
	NIncome       *decimal.Decimal `json:"n_income,omitempty"`        // net profit incl. minority interests
	NIncomeAttrP  *decimal.Decimal `json:"n_income_attr_p,omitempty"` // net profit attributable to parent
	MinorityGain  *decimal.Decimal `json:"minority_gain,omitempty"`
	EBIT          *decimal.Decimal `json:"ebit,omitempty"`
	EBITDA        *decimal.Decimal `json:"ebitda,omitempty"`
	InvestIncome  *decimal.Decimal `json:"invest_income,omitempty"`
}

// BalanceSheet holds balance-sheet line items for one period.
type BalanceSheet struct {
	TotalShare       *decimal.Decimal `json:"total_share,omitempty"`
	CapRese          *decimal.Decimal `json:"cap_rese,omitempty"`
	UndistrPorfit    *decimal.Decimal `json:"undistr_porfit,omitempty"`
	SurplusRese      *decimal.Decimal `json:"surplus_rese,omitempty"`
	MoneyCap         *decimal.Decimal `json:"money_cap,omitempty"`
	AccountsReceiv   *decimal.Decimal `json:"accounts_receiv,omitempty"`
	Inventories      *decimal.Decimal `json:"inventories,omitempty"`
	TotalCurAssets   *decimal.Decimal `json:"total_cur_assets,omitempty"`
	FixAssets        *decimal.Decimal `json:"fix_assets,omitempty"`
	IntanAssets      *decimal.Decimal `json:"intan_assets,omitempty"`
	Goodwill         *decimal.Decimal `json:"goodwill,omitempty"`
	TotalNca         *decimal.Decimal `json:"total_nca,omitempty"`
	TotalAssets      *decimal.Decimal `json:"total_assets,omitempty"`
	StBorr           *decimal.Decimal `json:"st_borr,omitempty"`
	LtBorr           *decimal.Decimal `json:"lt_borr,omitempty"`
	AcctPayable      *decimal.Decimal `json:"acct_payable,omitempty"`
	TotalCurLiab     *decimal.Decimal `json:"total_cur_liab,omitempty"`
	TotalNcl         *decimal.Decimal `json:"total_ncl,omitempty"`
	TotalLiab        *decimal.Decimal `json:"total_liab,omitempty"`
	MinorityInt      *decimal.Decimal `json:"minority_int,omitempty"`
	TotalHldrEqyExcM *decimal.Decimal `json:"total_hldr_eqy_exc_min_int,omitempty"`
	TotalHldrEqyIncM *decimal.Decimal `json:"total_hldr_eqy_inc_min_int,omitempty"`
}

// CashFlowStatement holds cash-flow-statement line items for one period.
type CashFlowStatement struct {
	NetProfit          *decimal.Decimal `json:"net_profit,omitempty"`
	FinanExp           *decimal.Decimal `json:"finan_exp,omitempty"` // financing expense
	CFrSaleSg          *decimal.Decimal `json:"c_fr_sale_sg,omitempty"`
	CInfFrOperateA     *decimal.Decimal `json:"c_inf_fr_operate_a,omitempty"`
	CPaidGoodsS        *decimal.Decimal `json:"c_paid_goods_s,omitempty"`
	CPaidToForEmpl     *decimal.Decimal `json:"c_paid_to_for_empl,omitempty"`
	CPaidForTaxes      *decimal.Decimal `json:"c_paid_for_taxes,omitempty"`
	StCashOutAct       *decimal.Decimal `json:"st_cash_out_act,omitempty"`
	NCashflowAct       *decimal.Decimal `json:"n_cashflow_act,omitempty"` // net operating cash flow
	NCashflowInvAct    *decimal.Decimal `json:"n_cashflow_inv_act,omitempty"`
	NCashFlowsFncAct   *decimal.Decimal `json:"n_cash_flows_fnc_act,omitempty"`
	CPayAcqConstFiolta *decimal.Decimal `json:"c_pay_acq_const_fiolta,omitempty"`
	FreeCashflow       *decimal.Decimal `json:"free_cashflow,omitempty"`
	NIncrCashCashEqu   *decimal.Decimal `json:"n_incr_cash_cash_equ,omitempty"`
	CCashEquBegPeriod  *decimal.Decimal `json:"c_cash_equ_beg_period,omitempty"`
	CCashEquEndPeriod  *decimal.Decimal `json:"c_cash_equ_end_period,omitempty"`
	DeprFaCogaDpba     *decimal.Decimal `json:"depr_fa_coga_dpba,omitempty"` // depreciation
	AmortIntangAssets  *decimal.Decimal `json:"amort_intang_assets,omitempty"`
	LtAmortDeferredExp *decimal.Decimal `json:"lt_amort_deferred_exp,omitempty"`
}

// FinancialIndicators holds derived ratios published alongside the statements.
type FinancialIndicators struct {
	EPS             *decimal.Decimal `json:"eps,omitempty"`
	BPS             *decimal.Decimal `json:"bps,omitempty"`
	ROE             *decimal.Decimal `json:"roe,omitempty"` // percent, e.g. 15.0
	ROEWaa          *decimal.Decimal `json:"roe_waa,omitempty"`
	ROEDt           *decimal.Decimal `json:"roe_dt,omitempty"`
	ROA             *decimal.Decimal `json:"roa,omitempty"`
	GrossprofitMgn  *decimal.Decimal `json:"grossprofit_margin,omitempty"`
	NetprofitMgn    *decimal.Decimal `json:"netprofit_margin,omitempty"`
	DebtToAssets    *decimal.Decimal `json:"debt_to_assets,omitempty"`
	CurrentRatio    *decimal.Decimal `json:"current_ratio,omitempty"`
	QuickRatio      *decimal.Decimal `json:"quick_ratio,omitempty"`
	FCFF            *decimal.Decimal `json:"fcff,omitempty"`
	FCFFPs          *decimal.Decimal `json:"fcff_ps,omitempty"`
	NetprofitYoy    *decimal.Decimal `json:"netprofit_yoy,omitempty"`
	OrYoy           *decimal.Decimal `json:"or_yoy,omitempty"`
	EquityYoy       *decimal.Decimal `json:"equity_yoy,omitempty"`
	TotalRevenuePs  *decimal.Decimal `json:"total_revenue_ps,omitempty"`
	CapitalResePs   *decimal.Decimal `json:"capital_rese_ps,omitempty"`
	UndistProfitPs  *decimal.Decimal `json:"undist_profit_ps,omitempty"`
}

// FinancialReport is one reporting period's statements and ratios.
// Immutable once fetched.
type FinancialReport struct {
	TsCode     string               `json:"ts_code"`
	AnnDate    time.Time            `json:"ann_date"` // announcement date
	EndDate    time.Time            `json:"end_date"` // period end
	ReportType string               `json:"report_type"`
	EndType    string               `json:"end_type"` // see EndType constants
	Income     *IncomeStatement     `json:"income,omitempty"`
	Balance    *BalanceSheet        `json:"balance,omitempty"`
	CashFlow   *CashFlowStatement   `json:"cash_flow,omitempty"`
	Indicators *FinancialIndicators `json:"indicators,omitempty"`
}

// IsAnnual reports whether this is a full-year report.
func (r *FinancialReport) IsAnnual() bool {
	return r.EndType == EndTypeAnnual
}
