package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ashare/internal/market"
)

// IndicatorRepository stores daily valuation indicators.
type IndicatorRepository struct {
	pool *pgxpool.Pool
}

// NewIndicatorRepository creates a new indicator repository.
func NewIndicatorRepository(pool *pgxpool.Pool) *IndicatorRepository {
	return &IndicatorRepository{pool: pool}
}

// Save upserts one indicator row.
func (r *IndicatorRepository) Save(ctx context.Context, ind *market.DailyIndicator) error {
	query := `
		INSERT INTO daily_indicators (ts_code, trade_date, close, turnover_rate,
			turnover_rate_f, volume_ratio, pe, pe_ttm, pb, ps, ps_ttm,
			dv_ratio, dv_ttm, total_share, float_share, free_share, total_mv, circ_mv)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			close = EXCLUDED.close,
			turnover_rate = EXCLUDED.turnover_rate,
			turnover_rate_f = EXCLUDED.turnover_rate_f,
			volume_ratio = EXCLUDED.volume_ratio,
			pe = EXCLUDED.pe,
			pe_ttm = EXCLUDED.pe_ttm,
			pb = EXCLUDED.pb,
			ps = EXCLUDED.ps,
			ps_ttm = EXCLUDED.ps_ttm,
			dv_ratio = EXCLUDED.dv_ratio,
			dv_ttm = EXCLUDED.dv_ttm,
			total_share = EXCLUDED.total_share,
			float_share = EXCLUDED.float_share,
			free_share = EXCLUDED.free_share,
			total_mv = EXCLUDED.total_mv,
			circ_mv = EXCLUDED.circ_mv
	`

	_, err := r.pool.Exec(ctx, query,
		ind.TsCode, ind.TradeDate, ind.Close, ind.TurnoverRate,
		ind.TurnoverRateF, ind.VolumeRatio, ind.PE, ind.PETTM, ind.PB, ind.PS, ind.PSTTM,
		ind.DvRatio, ind.DvTTM, ind.TotalShare, ind.FloatShare, ind.FreeShare, ind.TotalMV, ind.CircMV,
	)
	return err
}

// SaveBatch upserts many indicator rows.
func (r *IndicatorRepository) SaveBatch(ctx context.Context, indicators []market.DailyIndicator) error {
	for i := range indicators {
		if err := r.Save(ctx, &indicators[i]); err != nil {
			return fmt.Errorf("save indicator %s %s: %w",
				indicators[i].TsCode, indicators[i].TradeDate.Format("2006-01-02"), err)
		}
	}
	return nil
}

// LatestDate returns the most recent trade date stored for a security,
// or the zero time when none exist.
func (r *IndicatorRepository) LatestDate(ctx context.Context, tsCode string) (time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(trade_date) FROM daily_indicators WHERE ts_code = $1`, tsCode,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, err
	}
	return dateValue(latest), nil
}

// FindByCode returns all indicators for a security ordered by trade date.
func (r *IndicatorRepository) FindByCode(ctx context.Context, tsCode string) ([]market.DailyIndicator, error) {
	query := `
		SELECT ts_code, trade_date, close, turnover_rate, turnover_rate_f,
			volume_ratio, pe, pe_ttm, pb, ps, ps_ttm, dv_ratio, dv_ttm,
			total_share, float_share, free_share, total_mv, circ_mv
		FROM daily_indicators
		WHERE ts_code = $1
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, tsCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indicators []market.DailyIndicator
	for rows.Next() {
		var ind market.DailyIndicator
		if err := rows.Scan(
			&ind.TsCode, &ind.TradeDate, &ind.Close, &ind.TurnoverRate, &ind.TurnoverRateF,
			&ind.VolumeRatio, &ind.PE, &ind.PETTM, &ind.PB, &ind.PS, &ind.PSTTM,
			&ind.DvRatio, &ind.DvTTM, &ind.TotalShare, &ind.FloatShare, &ind.FreeShare,
			&ind.TotalMV, &ind.CircMV,
		); err != nil {
			return nil, err
		}
		indicators = append(indicators, ind)
	}
	return indicators, rows.Err()
}
