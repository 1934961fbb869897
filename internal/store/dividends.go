package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ashare/internal/market"
)

// DividendRepository stores dividend and bonus-share plans.
type DividendRepository struct {
	pool *pgxpool.Pool
}

// NewDividendRepository creates a new dividend repository.
func NewDividendRepository(pool *pgxpool.Pool) *DividendRepository {
	return &DividendRepository{pool: pool}
}

// Save upserts one dividend plan, keyed by security and fiscal period.
func (r *DividendRepository) Save(ctx context.Context, div *market.Dividend) error {
	query := `
		INSERT INTO dividends (ts_code, end_date, ann_date, div_proc, stk_div,
			stk_bo_rate, stk_co_rate, cash_div, cash_div_tax,
			record_date, ex_date, pay_date, base_date, base_share)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (ts_code, end_date) DO UPDATE SET
			ann_date = EXCLUDED.ann_date,
			div_proc = EXCLUDED.div_proc,
			stk_div = EXCLUDED.stk_div,
			stk_bo_rate = EXCLUDED.stk_bo_rate,
			stk_co_rate = EXCLUDED.stk_co_rate,
			cash_div = EXCLUDED.cash_div,
			cash_div_tax = EXCLUDED.cash_div_tax,
			record_date = EXCLUDED.record_date,
			ex_date = EXCLUDED.ex_date,
			pay_date = EXCLUDED.pay_date,
			base_date = EXCLUDED.base_date,
			base_share = EXCLUDED.base_share
	`

	_, err := r.pool.Exec(ctx, query,
		div.TsCode, div.EndDate, nullableDate(div.AnnDate), string(div.DivProc), div.StkDiv,
		div.StkBoRate, div.StkCoRate, div.CashDiv, div.CashDivTax,
		nullableDate(div.RecordDate), nullableDate(div.ExDate), nullableDate(div.PayDate),
		nullableDate(div.BaseDate), div.BaseShare,
	)
	return err
}

// SaveBatch upserts many dividend plans.
func (r *DividendRepository) SaveBatch(ctx context.Context, dividends []market.Dividend) error {
	for i := range dividends {
		if err := r.Save(ctx, &dividends[i]); err != nil {
			return fmt.Errorf("save dividend %s %s: %w",
				dividends[i].TsCode, dividends[i].EndDate.Format("2006-01-02"), err)
		}
	}
	return nil
}

// FindByCode returns all dividend plans for a security ordered by fiscal period.
func (r *DividendRepository) FindByCode(ctx context.Context, tsCode string) ([]market.Dividend, error) {
	query := `
		SELECT ts_code, end_date, ann_date, div_proc, stk_div, stk_bo_rate,
			stk_co_rate, cash_div, cash_div_tax, record_date, ex_date,
			pay_date, base_date, base_share
		FROM dividends
		WHERE ts_code = $1
		ORDER BY end_date ASC
	`

	rows, err := r.pool.Query(ctx, query, tsCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dividends []market.Dividend
	for rows.Next() {
		var (
			div      market.Dividend
			divProc  string
			annDate  *time.Time
			recDate  *time.Time
			exDate   *time.Time
			payDate  *time.Time
			baseDate *time.Time
		)
		if err := rows.Scan(
			&div.TsCode, &div.EndDate, &annDate, &divProc, &div.StkDiv, &div.StkBoRate,
			&div.StkCoRate, &div.CashDiv, &div.CashDivTax, &recDate, &exDate,
			&payDate, &baseDate, &div.BaseShare,
		); err != nil {
			return nil, err
		}
		div.DivProc = market.DivStatus(divProc)
		div.AnnDate = dateValue(annDate)
		div.RecordDate = dateValue(recDate)
		div.ExDate = dateValue(exDate)
		div.PayDate = dateValue(payDate)
		div.BaseDate = dateValue(baseDate)
		dividends = append(dividends, div)
	}
	return dividends, rows.Err()
}
