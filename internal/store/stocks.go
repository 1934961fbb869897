package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ashare/internal/market"
)

// StockRepository stores the listed-stock roster.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new stock repository.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Save upserts one stock.
func (r *StockRepository) Save(ctx context.Context, s *market.Stock) error {
	query := `
		INSERT INTO stocks (ts_code, symbol, name, area, industry, market, exchange,
			curr_type, list_status, list_date, delist_date, is_hs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ts_code) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			area = EXCLUDED.area,
			industry = EXCLUDED.industry,
			market = EXCLUDED.market,
			exchange = EXCLUDED.exchange,
			curr_type = EXCLUDED.curr_type,
			list_status = EXCLUDED.list_status,
			list_date = EXCLUDED.list_date,
			delist_date = EXCLUDED.delist_date,
			is_hs = EXCLUDED.is_hs
	`

	_, err := r.pool.Exec(ctx, query,
		s.TsCode, s.Symbol, s.Name, s.Area, s.Industry, s.Market, s.Exchange,
		s.CurrType, s.ListStatus, nullableDate(s.ListDate), nullableDate(s.DelistDate), s.IsHS,
	)
	return err
}

// SaveBatch upserts many stocks.
func (r *StockRepository) SaveBatch(ctx context.Context, stocks []market.Stock) error {
	for i := range stocks {
		if err := r.Save(ctx, &stocks[i]); err != nil {
			return fmt.Errorf("save stock %s: %w", stocks[i].TsCode, err)
		}
	}
	return nil
}

// FindByCode returns the stock with the given code, or nil if unknown.
func (r *StockRepository) FindByCode(ctx context.Context, tsCode string) (*market.Stock, error) {
	query := `
		SELECT ts_code, symbol, name, area, industry, market, exchange,
			curr_type, list_status, list_date, delist_date, is_hs
		FROM stocks
		WHERE ts_code = $1
	`

	var s market.Stock
	var listDate, delistDate *time.Time
	err := r.pool.QueryRow(ctx, query, tsCode).Scan(
		&s.TsCode, &s.Symbol, &s.Name, &s.Area, &s.Industry, &s.Market, &s.Exchange,
		&s.CurrType, &s.ListStatus, &listDate, &delistDate, &s.IsHS,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ListDate = dateValue(listDate)
	s.DelistDate = dateValue(delistDate)
	return &s, nil
}

// FindAll returns every stored stock ordered by code.
func (r *StockRepository) FindAll(ctx context.Context) ([]market.Stock, error) {
	query := `
		SELECT ts_code, symbol, name, area, industry, market, exchange,
			curr_type, list_status, list_date, delist_date, is_hs
		FROM stocks
		ORDER BY ts_code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []market.Stock
	for rows.Next() {
		var s market.Stock
		var listDate, delistDate *time.Time
		if err := rows.Scan(
			&s.TsCode, &s.Symbol, &s.Name, &s.Area, &s.Industry, &s.Market, &s.Exchange,
			&s.CurrType, &s.ListStatus, &listDate, &delistDate, &s.IsHS,
		); err != nil {
			return nil, err
		}
		s.ListDate = dateValue(listDate)
		s.DelistDate = dateValue(delistDate)
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
