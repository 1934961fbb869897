package market

import "github.com/shopspring/decimal"

// ReportField names a statement line item addressable across a report.
// The registry replaces the provider's human-readable-name lookup with a
// statically checkable accessor table.
type ReportField string

const (
	FieldNetIncome          ReportField = "income.n_income"
	FieldNetIncomeAttrP     ReportField = "income.n_income_attr_p"
	FieldMinorityGain       ReportField = "income.minority_gain"
	FieldTotalRevenue       ReportField = "income.total_revenue"
	FieldOperateProfit      ReportField = "income.operate_profit"
	FieldBasicEPS           ReportField = "income.basic_eps"
	FieldTotalAssets        ReportField = "balance.total_assets"
	FieldTotalLiab          ReportField = "balance.total_liab"
	FieldMinorityInt        ReportField = "balance.minority_int"
	FieldEquityExcMinority  ReportField = "balance.total_hldr_eqy_exc_min_int"
	FieldOperatingCashflow  ReportField = "cashflow.n_cashflow_act"
	FieldDepreciation       ReportField = "cashflow.depr_fa_coga_dpba"
	FieldAmortization       ReportField = "cashflow.amort_intang_assets"
	FieldFinancingExpense   ReportField = "cashflow.finan_exp"
	FieldCashflowNetProfit  ReportField = "cashflow.net_profit"
	FieldFreeCashflow       ReportField = "cashflow.free_cashflow"
	FieldROE                ReportField = "indicator.roe"
	FieldROEWeighted        ReportField = "indicator.roe_waa"
	FieldFCFF               ReportField = "indicator.fcff"
	FieldNetprofitMargin    ReportField = "indicator.netprofit_margin"
)

type fieldAccessor func(*FinancialReport) *decimal.Decimal

var reportFields = map[ReportField]fieldAccessor{
	FieldNetIncome: func(r *FinancialReport) *decimal.Decimal {
		if r.Income == nil {
			return nil
		}
		return r.Income.NIncome
	},
	FieldNetIncomeAttrP: func(r *FinancialReport) *decimal.Decimal {
		if r.Income == nil {
			return nil
		}
		return r.Income.NIncomeAttrP
	},
	FieldMinorityGain: func(r *FinancialReport) *decimal.Decimal {
		if r.Income == nil {
			return nil
		}
		return r.Income.MinorityGain
	},
	FieldTotalRevenue: func(r *FinancialReport) *decimal.Decimal {
		if r.Income == nil {
			return nil
		}
		return r.Income.TotalRevenue
	},
	FieldOperateProfit: func(r *FinancialReport) *decimal.Decimal {
		if r.Income == nil {
			return nil
		}
		return r.Income.OperateProfit
	},
	FieldBasicEPS: func(r *FinancialReport) *decimal.Decimal {
		if r.Income == nil {
			return nil
		}
		return r.Income.BasicEPS
	},
	FieldTotalAssets: func(r *FinancialReport) *decimal.Decimal {
		if r.Balance == nil {
			return nil
		}
		return r.Balance.TotalAssets
	},
	FieldTotalLiab: func(r *FinancialReport) *decimal.Decimal {
		if r.Balance == nil {
			return nil
		}
		return r.Balance.TotalLiab
	},
	FieldMinorityInt: func(r *FinancialReport) *decimal.Decimal {
		if r.Balance == nil {
			return nil
		}
		return r.Balance.MinorityInt
	},
	FieldEquityExcMinority: func(r *FinancialReport) *decimal.Decimal {
		if r.Balance == nil {
			return nil
		}
		return r.Balance.TotalHldrEqyExcM
	},
	FieldOperatingCashflow: func(r *FinancialReport) *decimal.Decimal {
		if r.CashFlow == nil {
			return nil
		}
		return r.CashFlow.NCashflowAct
	},
	FieldDepreciation: func(r *FinancialReport) *decimal.Decimal {
		if r.CashFlow == nil {
			return nil
		}
		return r.CashFlow.DeprFaCogaDpba
	},
	FieldAmortization: func(r *FinancialReport) *decimal.Decimal {
		if r.CashFlow == nil {
			return nil
		}
		return r.CashFlow.AmortIntangAssets
	},
	FieldFinancingExpense: func(r *FinancialReport) *decimal.Decimal {
		if r.CashFlow == nil {
			return nil
		}
		return r.CashFlow.FinanExp
	},
	FieldCashflowNetProfit: func(r *FinancialReport) *decimal.Decimal {
		if r.CashFlow == nil {
			return nil
		}
		return r.CashFlow.NetProfit
	},
	FieldFreeCashflow: func(r *FinancialReport) *decimal.Decimal {
		if r.CashFlow == nil {
			return nil
		}
		return r.CashFlow.FreeCashflow
	},
	FieldROE: func(r *FinancialReport) *decimal.Decimal {
		if r.Indicators == nil {
			return nil
		}
		return r.Indicators.ROE
	},
	FieldROEWeighted: func(r *FinancialReport) *decimal.Decimal {
		if r.Indicators == nil {
			return nil
		}
		return r.Indicators.ROEWaa
	},
	FieldFCFF: func(r *FinancialReport) *decimal.Decimal {
		if r.Indicators == nil {
			return nil
		}
		return r.Indicators.FCFF
	},
	FieldNetprofitMargin: func(r *FinancialReport) *decimal.Decimal {
		if r.Indicators == nil {
			return nil
		}
		return r.Indicators.NetprofitMgn
	},
}

// Field resolves a named line item on the report. The second return is
// false when the field name is unknown or the value was not reported.
func (r *FinancialReport) Field(name ReportField) (decimal.Decimal, bool) {
	accessor, ok := reportFields[name]
	if !ok {
		return decimal.Zero, false
	}
	value := accessor(r)
	if value == nil {
		return decimal.Zero, false
	}
	return *value, true
}
