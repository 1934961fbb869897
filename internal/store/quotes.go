package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ashare/internal/market"
)

// QuoteRepository stores daily OHLCV data.
type QuoteRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository creates a new quote repository.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

// Save upserts one quote.
func (r *QuoteRepository) Save(ctx context.Context, q *market.DailyQuote) error {
	query := `
		INSERT INTO daily_quotes (ts_code, trade_date, open, high, low, close,
			pre_close, change, pct_chg, vol, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			pre_close = EXCLUDED.pre_close,
			change = EXCLUDED.change,
			pct_chg = EXCLUDED.pct_chg,
			vol = EXCLUDED.vol,
			amount = EXCLUDED.amount
	`

	_, err := r.pool.Exec(ctx, query,
		q.TsCode, q.TradeDate, q.Open, q.High, q.Low, q.Close,
		q.PreClose, q.Change, q.PctChg, q.Vol, q.Amount,
	)
	return err
}

// SaveBatch upserts many quotes.
func (r *QuoteRepository) SaveBatch(ctx context.Context, quotes []market.DailyQuote) error {
	for i := range quotes {
		if err := r.Save(ctx, &quotes[i]); err != nil {
			return fmt.Errorf("save quote %s %s: %w",
				quotes[i].TsCode, quotes[i].TradeDate.Format("2006-01-02"), err)
		}
	}
	return nil
}

// FindByCode returns all quotes for a security ordered by trade date.
func (r *QuoteRepository) FindByCode(ctx context.Context, tsCode string) ([]market.DailyQuote, error) {
	query := `
		SELECT ts_code, trade_date, open, high, low, close,
			pre_close, change, pct_chg, vol, amount
		FROM daily_quotes
		WHERE ts_code = $1
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, tsCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []market.DailyQuote
	for rows.Next() {
		var q market.DailyQuote
		if err := rows.Scan(
			&q.TsCode, &q.TradeDate, &q.Open, &q.High, &q.Low, &q.Close,
			&q.PreClose, &q.Change, &q.PctChg, &q.Vol, &q.Amount,
		); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// LatestDate returns the most recent stored trade date for a security;
// the zero time when nothing is stored yet.
func (r *QuoteRepository) LatestDate(ctx context.Context, tsCode string) (time.Time, error) {
	query := `SELECT MAX(trade_date) FROM daily_quotes WHERE ts_code = $1`
	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, tsCode).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	return dateValue(latest), nil
}
