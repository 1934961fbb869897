package tushare

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/ashare/internal/market"
)

// FetchFinancialReports fetches the income statement, balance sheet,
// cash-flow statement and derived indicators for one security and merges
// them into per-period reports keyed by period end.
func (c *Client) FetchFinancialReports(ctx context.Context, tsCode string, from, to time.Time) ([]market.FinancialReport, error) {
	params := map[string]string{
		"ts_code":    tsCode,
		"start_date": from.Format(dateLayout),
		"end_date":   to.Format(dateLayout),
	}

	reports := make(map[string]*market.FinancialReport)
	get := func(endDate time.Time) *market.FinancialReport {
		key := endDate.Format(dateLayout)
		if r, ok := reports[key]; ok {
			return r
		}
		r := &market.FinancialReport{TsCode: tsCode, EndDate: endDate}
		reports[key] = r
		return r
	}

	if err := c.fetchIncome(ctx, params, get); err != nil {
		return nil, fmt.Errorf("fetch financial reports for %s: %w", tsCode, err)
	}
	if err := c.fetchBalance(ctx, params, get); err != nil {
		return nil, fmt.Errorf("fetch financial reports for %s: %w", tsCode, err)
	}
	if err := c.fetchCashFlow(ctx, params, get); err != nil {
		return nil, fmt.Errorf("fetch financial reports for %s: %w", tsCode, err)
	}
	if err := c.fetchIndicators(ctx, params, get); err != nil {
		return nil, fmt.Errorf("fetch financial reports for %s: %w", tsCode, err)
	}

	out := make([]market.FinancialReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndDate.Before(out[j].EndDate)
	})
	return out, nil
}

func (c *Client) fetchIncome(ctx context.Context, params map[string]string, get func(time.Time) *market.FinancialReport) error {
	fields := "ts_code,ann_date,f_ann_date,end_date,report_type,end_type,basic_eps,diluted_eps," +
		"total_revenue,revenue,total_cogs,oper_cost,sell_exp,admin_exp,fin_exp,rd_exp,operate_profit," +
		"non_oper_income,non_oper_exp,total_profit,income_tax,n_income,n_income_attr_p,minority_gain," +
		"ebit,ebitda,invest_income"

	rows, err := c.query(ctx, "income", params, fields)
	if err != nil {
		return err
	}
	for _, r := range rows {
		report := get(r.date("end_date"))
		report.ReportType = r.str("report_type")
		report.EndType = r.str("end_type")
		report.AnnDate = r.date("f_ann_date")
		if report.AnnDate.IsZero() {
			report.AnnDate = r.date("ann_date")
		}
		report.Income = &market.IncomeStatement{
			BasicEPS:      r.decPtr("basic_eps"),
			DilutedEPS:    r.decPtr("diluted_eps"),
			TotalRevenue:  r.decPtr("total_revenue"),
			Revenue:       r.decPtr("revenue"),
			TotalCogs:     r.decPtr("total_cogs"),
			OperCost:      r.decPtr("oper_cost"),
			SellExp:       r.decPtr("sell_exp"),
			AdminExp:      r.decPtr("admin_exp"),
			FinExp:        r.decPtr("fin_exp"),
			RdExp:         r.decPtr("rd_exp"),
			OperateProfit: r.decPtr("operate_profit"),
			NonOperIncome: r.decPtr("non_oper_income"),
			NonOperExp:    r.decPtr("non_oper_exp"),
			TotalProfit:   r.decPtr("total_profit"),
			IncomeTax:     r.decPtr("income_tax"),
			NIncome:       r.decPtr("n_income"),
			NIncomeAttrP:  r.decPtr("n_income_attr_p"),
			MinorityGain:  r.decPtr("minority_gain"),
			EBIT:          r.decPtr("ebit"),
			EBITDA:        r.decPtr("ebitda"),
			InvestIncome:  r.decPtr("invest_income"),
		}
	}
	return nil
}

func (c *Client) fetchBalance(ctx context.Context, params map[string]string, get func(time.Time) *market.FinancialReport) error {
	fields := "ts_code,end_date,total_share,cap_rese,undistr_porfit,surplus_rese,money_cap," +
		"accounts_receiv,inventories,total_cur_assets,fix_assets,intan_assets,goodwill,total_nca," +
		"total_assets,st_borr,lt_borr,acct_payable,total_cur_liab,total_ncl,total_liab,minority_int," +
		"total_hldr_eqy_exc_min_int,total_hldr_eqy_inc_min_int"

	rows, err := c.query(ctx, "balancesheet", params, fields)
	if err != nil {
		return err
	}
	for _, r := range rows {
		report := get(r.date("end_date"))
		report.Balance = &market.BalanceSheet{
			TotalShare:       r.decPtr("total_share"),
			CapRese:          r.decPtr("cap_rese"),
			UndistrPorfit:    r.decPtr("undistr_porfit"),
			SurplusRese:      r.decPtr("surplus_rese"),
			MoneyCap:         r.decPtr("money_cap"),
			AccountsReceiv:   r.decPtr("accounts_receiv"),
			Inventories:      r.decPtr("inventories"),
			TotalCurAssets:   r.decPtr("total_cur_assets"),
			FixAssets:        r.decPtr("fix_assets"),
			IntanAssets:      r.decPtr("intan_assets"),
			Goodwill:         r.decPtr("goodwill"),
			TotalNca:         r.decPtr("total_nca"),
			TotalAssets:      r.decPtr("total_assets"),
			StBorr:           r.decPtr("st_borr"),
			LtBorr:           r.decPtr("lt_borr"),
			AcctPayable:      r.decPtr("acct_payable"),
			TotalCurLiab:     r.decPtr("total_cur_liab"),
			TotalNcl:         r.decPtr("total_ncl"),
			TotalLiab:        r.decPtr("total_liab"),
			MinorityInt:      r.decPtr("minority_int"),
			TotalHldrEqyExcM: r.decPtr("total_hldr_eqy_exc_min_int"),
			TotalHldrEqyIncM: r.decPtr("total_hldr_eqy_inc_min_int"),
		}
	}
	return nil
}

func (c *Client) fetchCashFlow(ctx context.Context, params map[string]string, get func(time.Time) *market.FinancialReport) error {
	fields := "ts_code,end_date,net_profit,finan_exp,c_fr_sale_sg,c_inf_fr_operate_a,c_paid_goods_s," +
		"c_paid_to_for_empl,c_paid_for_taxes,st_cash_out_act,n_cashflow_act,n_cashflow_inv_act," +
		"n_cash_flows_fnc_act,c_pay_acq_const_fiolta,free_cashflow,n_incr_cash_cash_equ," +
		"c_cash_equ_beg_period,c_cash_equ_end_period,depr_fa_coga_dpba,amort_intang_assets,lt_amort_deferred_exp"

	rows, err := c.query(ctx, "cashflow", params, fields)
	if err != nil {
		return err
	}
	for _, r := range rows {
		report := get(r.date("end_date"))
		report.CashFlow = &market.CashFlowStatement{
			NetProfit:          r.decPtr("net_profit"),
			FinanExp:           r.decPtr("finan_exp"),
			CFrSaleSg:          r.decPtr("c_fr_sale_sg"),
			CInfFrOperateA:     r.decPtr("c_inf_fr_operate_a"),
			CPaidGoodsS:        r.decPtr("c_paid_goods_s"),
			CPaidToForEmpl:     r.decPtr("c_paid_to_for_empl"),
			CPaidForTaxes:      r.decPtr("c_paid_for_taxes"),
			StCashOutAct:       r.decPtr("st_cash_out_act"),
			NCashflowAct:       r.decPtr("n_cashflow_act"),
			NCashflowInvAct:    r.decPtr("n_cashflow_inv_act"),
			NCashFlowsFncAct:   r.decPtr("n_cash_flows_fnc_act"),
			CPayAcqConstFiolta: r.decPtr("c_pay_acq_const_fiolta"),
			FreeCashflow:       r.decPtr("free_cashflow"),
			NIncrCashCashEqu:   r.decPtr("n_incr_cash_cash_equ"),
			CCashEquBegPeriod:  r.decPtr("c_cash_equ_beg_period"),
			CCashEquEndPeriod:  r.decPtr("c_cash_equ_end_period"),
			DeprFaCogaDpba:     r.decPtr("depr_fa_coga_dpba"),
			AmortIntangAssets:  r.decPtr("amort_intang_assets"),
			LtAmortDeferredExp: r.decPtr("lt_amort_deferred_exp"),
		}
	}
	return nil
}

func (c *Client) fetchIndicators(ctx context.Context, params map[string]string, get func(time.Time) *market.FinancialReport) error {
	fields := "ts_code,end_date,eps,bps,roe,roe_waa,roe_dt,roa,grossprofit_margin,netprofit_margin," +
		"debt_to_assets,current_ratio,quick_ratio,fcff,fcff_ps,netprofit_yoy,or_yoy,equity_yoy," +
		"total_revenue_ps,capital_rese_ps,undist_profit_ps"

	rows, err := c.query(ctx, "fina_indicator", params, fields)
	if err != nil {
		return err
	}
	for _, r := range rows {
		report := get(r.date("end_date"))
		report.Indicators = &market.FinancialIndicators{
			EPS:            r.decPtr("eps"),
			BPS:            r.decPtr("bps"),
			ROE:            r.decPtr("roe"),
			ROEWaa:         r.decPtr("roe_waa"),
			ROEDt:          r.decPtr("roe_dt"),
			ROA:            r.decPtr("roa"),
			GrossprofitMgn: r.decPtr("grossprofit_margin"),
			NetprofitMgn:   r.decPtr("netprofit_margin"),
			DebtToAssets:   r.decPtr("debt_to_assets"),
			CurrentRatio:   r.decPtr("current_ratio"),
			QuickRatio:     r.decPtr("quick_ratio"),
			FCFF:           r.decPtr("fcff"),
			FCFFPs:         r.decPtr("fcff_ps"),
			NetprofitYoy:   r.decPtr("netprofit_yoy"),
			OrYoy:          r.decPtr("or_yoy"),
			EquityYoy:      r.decPtr("equity_yoy"),
			TotalRevenuePs: r.decPtr("total_revenue_ps"),
			CapitalResePs:  r.decPtr("capital_rese_ps"),
			UndistProfitPs: r.decPtr("undist_profit_ps"),
		}
	}
	return nil
}
