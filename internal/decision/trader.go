// Package decision turns fundamental and valuation signals for a single
// security into a trade action.
package decision

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/internal/valuation"
	"github.com/wonny/ashare/pkg/logger"
)

// Action is the engine's verdict for one evaluation date.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Config holds the screen thresholds and valuation rates.
type Config struct {
	MinROE        decimal.Decimal // percent, each of the last annual reports must clear it
	AnnualReports int             // how many trailing annual reports the ROE screen needs
	BuyRatio      float64         // DCF ratio at or below which a qualified stock is a buy
	SellRatio     float64         // DCF ratio at or above which the position is sold
	DiscountRate  float64
	RiskFreeRate  float64
	FCFFHistory   int // annual FCFF figures fed to the valuation model
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinROE:        decimal.NewFromFloat(15.0),
		AnnualReports: 5,
		BuyRatio:      0.5,
		SellRatio:     1.3,
		DiscountRate:  0.10,
		RiskFreeRate:  0.03,
		FCFFHistory:   5,
	}
}

// Evaluation is the engine's full output for one date, including the
// machine-readable debug trail for each screen.
type Evaluation struct {
	Action       Action
	ROEQualified bool
	PEPercentile float64 // diagnostic only, not gating
	DCFRatio     float64
	Debug        []string
}

// Trader evaluates one security on one date. It is rebuilt fresh for
// every evaluation and keeps no memory between calls; the constructor
// restricts every input series to data visible on the evaluation date.
type Trader struct {
	cfg        Config
	log        *logger.Logger
	date       time.Time
	indicators []market.DailyIndicator  // descending by trade date
	quotes     []market.DailyQuote      // descending by trade date
	dividends  []market.Dividend        // descending by announcement date
	reports    []market.FinancialReport // annual only, descending by period end
}

// NewTrader builds a trader for the evaluation date. Indicators, quotes
// and dividend announcements dated after the evaluation date are dropped;
// financial reports must additionally be announced strictly before it,
// modeling reporting lag.
func NewTrader(
	cfg Config,
	log *logger.Logger,
	indicators []market.DailyIndicator,
	quotes []market.DailyQuote,
	dividends []market.Dividend,
	reports []market.FinancialReport,
	date time.Time,
) *Trader {
	t := &Trader{cfg: cfg, log: log, date: date}

	for _, ind := range indicators {
		if !ind.TradeDate.After(date) {
			t.indicators = append(t.indicators, ind)
		}
	}
	sort.SliceStable(t.indicators, func(i, j int) bool {
		return t.indicators[i].TradeDate.After(t.indicators[j].TradeDate)
	})

	for _, q := range quotes {
		if !q.TradeDate.After(date) {
			t.quotes = append(t.quotes, q)
		}
	}
	sort.SliceStable(t.quotes, func(i, j int) bool {
		return t.quotes[i].TradeDate.After(t.quotes[j].TradeDate)
	})

	for _, d := range dividends {
		if !d.AnnDate.IsZero() && !d.AnnDate.After(date) {
			t.dividends = append(t.dividends, d)
		}
	}
	sort.SliceStable(t.dividends, func(i, j int) bool {
		return t.dividends[i].AnnDate.After(t.dividends[j].AnnDate)
	})

	for _, r := range reports {
		if r.IsAnnual() && !r.AnnDate.IsZero() && r.AnnDate.Before(date) {
			t.reports = append(t.reports, r)
		}
	}
	sort.SliceStable(t.reports, func(i, j int) bool {
		return t.reports[i].EndDate.After(t.reports[j].EndDate)
	})

	return t
}

// Decide runs the screens and applies the decision rule.
func (t *Trader) Decide() Evaluation {
	eval := Evaluation{Action: ActionHold}

	eval.ROEQualified = t.roeScreen(&eval)
	eval.PEPercentile = t.pePercentile(&eval)
	eval.DCFRatio = t.dcfRatio(&eval)

	switch {
	case eval.ROEQualified && eval.DCFRatio <= t.cfg.BuyRatio:
		eval.Action = ActionBuy
	case !eval.ROEQualified || eval.DCFRatio >= t.cfg.SellRatio:
		eval.Action = ActionSell
	}

	t.log.WithFields(map[string]interface{}{
		"date":          t.date.Format("2006-01-02"),
		"action":        string(eval.Action),
		"roe_qualified": eval.ROEQualified,
		"pe_percentile": eval.PEPercentile,
		"dcf_ratio":     eval.DCFRatio,
	}).Debug("Trade decision evaluated")

	return eval
}

// roeScreen requires every one of the most recent annual reports to
// clear the ROE threshold. Missing reports or missing ROE values fail
// the screen.
func (t *Trader) roeScreen(eval *Evaluation) bool {
	need := t.cfg.AnnualReports
	if len(t.reports) < need {
		eval.Debug = append(eval.Debug,
			fmt.Sprintf("roe screen: insufficient annual reports, have %d need %d", len(t.reports), need))
		return false
	}

	for _, r := range t.reports[:need] {
		roe, ok := r.Field(market.FieldROE)
		if !ok {
			eval.Debug = append(eval.Debug,
				fmt.Sprintf("roe screen: report %s missing roe", r.EndDate.Format("2006-01-02")))
			return false
		}
		if roe.LessThan(t.cfg.MinROE) {
			eval.Debug = append(eval.Debug,
				fmt.Sprintf("roe screen: report %s roe %s below threshold %s",
					r.EndDate.Format("2006-01-02"), roe.String(), t.cfg.MinROE.String()))
			return false
		}
	}

	eval.Debug = append(eval.Debug,
		fmt.Sprintf("roe screen: passed, %d annual reports at or above %s", need, t.cfg.MinROE.String()))
	return true
}

// pePercentile ranks the current P/E within the trailing five years of
// positive P/E observations. Diagnostic only; missing data is neutral 1.0.
func (t *Trader) pePercentile(eval *Evaluation) float64 {
	if len(t.indicators) == 0 {
		eval.Debug = append(eval.Debug, "pe percentile: no indicators, neutral 1.0")
		return 1.0
	}

	windowStart := t.date.AddDate(-5, 0, 0)
	current := t.indicators[0].PE

	total := 0
	below := 0
	for _, ind := range t.indicators {
		if ind.TradeDate.Before(windowStart) || !ind.PE.IsPositive() {
			continue
		}
		total++
		if !ind.PE.GreaterThan(current) {
			below++
		}
	}
	if total == 0 {
		eval.Debug = append(eval.Debug, "pe percentile: no positive pe history, neutral 1.0")
		return 1.0
	}

	percentile := float64(below) / float64(total)
	eval.Debug = append(eval.Debug,
		fmt.Sprintf("pe percentile: %.4f over %d observations (diagnostic)", percentile, total))
	return percentile
}

// dcfRatio feeds the trailing annual FCFF figures into the DCF model and
// compares the latest market capitalization against the intrinsic value.
func (t *Trader) dcfRatio(eval *Evaluation) float64 {
	if len(t.indicators) == 0 || len(t.quotes) == 0 {
		eval.Debug = append(eval.Debug, "dcf ratio: no market data available, neutral 1.0")
		return 1.0
	}

	fcff := make([]float64, 0, t.cfg.FCFFHistory)
	for _, r := range t.reports {
		value, ok := reportFCFF(r)
		if !ok {
			continue
		}
		fcff = append(fcff, value)
		if len(fcff) >= t.cfg.FCFFHistory {
			break
		}
	}

	marketValue, _ := t.indicators[0].TotalMV.Float64()

	model := valuation.NewModel(t.cfg.DiscountRate, t.cfg.RiskFreeRate)
	result := model.Ratio(fcff, marketValue)
	if result.Neutral() {
		eval.Debug = append(eval.Debug, "dcf ratio: neutral 1.0, "+result.Reason)
		return result.Ratio
	}

	eval.Debug = append(eval.Debug,
		fmt.Sprintf("dcf ratio: %.4f (growth %.4f, intrinsic %.2f, market %.2f)",
			result.Ratio, result.GrowthRate, result.IntrinsicValue, marketValue))
	return result.Ratio
}

// reportFCFF derives free cash flow to firm for one period: operating
// cash flow minus depreciation, amortization and financing expense,
// scaled by the parent's share of net profit. Any missing input drops
// the period from the series.
func reportFCFF(r market.FinancialReport) (float64, bool) {
	ocf, ok := r.Field(market.FieldOperatingCashflow)
	if !ok {
		return 0, false
	}
	depr, ok := r.Field(market.FieldDepreciation)
	if !ok {
		return 0, false
	}
	amort, ok := r.Field(market.FieldAmortization)
	if !ok {
		return 0, false
	}
	finExp, ok := r.Field(market.FieldFinancingExpense)
	if !ok {
		return 0, false
	}
	netIncome, ok := r.Field(market.FieldNetIncome)
	if !ok || netIncome.IsZero() {
		return 0, false
	}
	attrParent, ok := r.Field(market.FieldNetIncomeAttrP)
	if !ok {
		return 0, false
	}

	equityShare := attrParent.Div(netIncome)
	fcff := ocf.Sub(depr).Sub(amort).Sub(finExp).Mul(equityShare)
	out, _ := fcff.Float64()
	return out, true
}
