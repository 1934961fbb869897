// Package store persists market records in PostgreSQL. The tables are a
// keyed cache in front of the data provider: saves are idempotent upserts
// and reads are straightforward keyed lookups.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			ts_code     TEXT PRIMARY KEY,
			symbol      TEXT NOT NULL DEFAULT '',
			name        TEXT NOT NULL DEFAULT '',
			area        TEXT NOT NULL DEFAULT '',
			industry    TEXT NOT NULL DEFAULT '',
			market      TEXT NOT NULL DEFAULT '',
			exchange    TEXT NOT NULL DEFAULT '',
			curr_type   TEXT NOT NULL DEFAULT '',
			list_status TEXT NOT NULL DEFAULT '',
			list_date   DATE,
			delist_date DATE,
			is_hs       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS daily_quotes (
			ts_code    TEXT NOT NULL,
			trade_date DATE NOT NULL,
			open       NUMERIC(20,4),
			high       NUMERIC(20,4),
			low        NUMERIC(20,4),
			close      NUMERIC(20,4),
			pre_close  NUMERIC(20,4),
			change     NUMERIC(20,4),
			pct_chg    NUMERIC(20,4),
			vol        NUMERIC(20,4),
			amount     NUMERIC(20,4),
			PRIMARY KEY (ts_code, trade_date)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_indicators (
			ts_code         TEXT NOT NULL,
			trade_date      DATE NOT NULL,
			close           NUMERIC(20,4),
			turnover_rate   NUMERIC(20,4),
			turnover_rate_f NUMERIC(20,4),
			volume_ratio    NUMERIC(20,4),
			pe              NUMERIC(20,4),
			pe_ttm          NUMERIC(20,4),
			pb              NUMERIC(20,4),
			ps              NUMERIC(20,4),
			ps_ttm          NUMERIC(20,4),
			dv_ratio        NUMERIC(20,4),
			dv_ttm          NUMERIC(20,4),
			total_share     NUMERIC(20,4),
			float_share     NUMERIC(20,4),
			free_share      NUMERIC(20,4),
			total_mv        NUMERIC(20,4),
			circ_mv         NUMERIC(20,4),
			PRIMARY KEY (ts_code, trade_date)
		)`,
		`CREATE TABLE IF NOT EXISTS dividends (
			ts_code      TEXT NOT NULL,
			end_date     DATE NOT NULL,
			ann_date     DATE,
			div_proc     TEXT NOT NULL DEFAULT '',
			stk_div      NUMERIC(20,4),
			stk_bo_rate  NUMERIC(20,4),
			stk_co_rate  NUMERIC(20,4),
			cash_div     NUMERIC(20,4),
			cash_div_tax NUMERIC(20,4),
			record_date  DATE,
			ex_date      DATE,
			pay_date     DATE,
			base_date    DATE,
			base_share   NUMERIC(20,4),
			PRIMARY KEY (ts_code, end_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dividends_ex_date ON dividends (ex_date)`,
		`CREATE TABLE IF NOT EXISTS financial_reports (
			ts_code     TEXT NOT NULL,
			end_date    DATE NOT NULL,
			ann_date    DATE,
			report_type TEXT NOT NULL DEFAULT '',
			end_type    TEXT NOT NULL DEFAULT '',
			income      JSONB,
			balance     JSONB,
			cash_flow   JSONB,
			indicators  JSONB,
			PRIMARY KEY (ts_code, end_date)
		)`,
		`CREATE TABLE IF NOT EXISTS sync_tasks (
			sync_type      TEXT PRIMARY KEY,
			last_sync_time TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// nullableDate maps the zero time to SQL NULL.
func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// dateValue maps SQL NULL back to the zero time.
func dateValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
