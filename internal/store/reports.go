package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ashare/internal/market"
)

// ReportRepository stores financial reports. The four statements are kept
// as JSONB documents so new line items never require a schema migration.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new financial report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save upserts one report, keyed by security and period end.
func (r *ReportRepository) Save(ctx context.Context, report *market.FinancialReport) error {
	income, err := marshalStatement(report.Income)
	if err != nil {
		return fmt.Errorf("marshal income statement: %w", err)
	}
	balance, err := marshalStatement(report.Balance)
	if err != nil {
		return fmt.Errorf("marshal balance sheet: %w", err)
	}
	cashFlow, err := marshalStatement(report.CashFlow)
	if err != nil {
		return fmt.Errorf("marshal cash flow statement: %w", err)
	}
	indicators, err := marshalStatement(report.Indicators)
	if err != nil {
		return fmt.Errorf("marshal indicators: %w", err)
	}

	query := `
		INSERT INTO financial_reports (ts_code, end_date, ann_date, report_type,
			end_type, income, balance, cash_flow, indicators)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ts_code, end_date) DO UPDATE SET
			ann_date = EXCLUDED.ann_date,
			report_type = EXCLUDED.report_type,
			end_type = EXCLUDED.end_type,
			income = EXCLUDED.income,
			balance = EXCLUDED.balance,
			cash_flow = EXCLUDED.cash_flow,
			indicators = EXCLUDED.indicators
	`

	_, err = r.pool.Exec(ctx, query,
		report.TsCode, report.EndDate, nullableDate(report.AnnDate), report.ReportType,
		report.EndType, income, balance, cashFlow, indicators,
	)
	return err
}

// SaveBatch upserts many reports.
func (r *ReportRepository) SaveBatch(ctx context.Context, reports []market.FinancialReport) error {
	for i := range reports {
		if err := r.Save(ctx, &reports[i]); err != nil {
			return fmt.Errorf("save report %s %s: %w",
				reports[i].TsCode, reports[i].EndDate.Format("2006-01-02"), err)
		}
	}
	return nil
}

// FindByCode returns all reports for a security ordered by period end.
func (r *ReportRepository) FindByCode(ctx context.Context, tsCode string) ([]market.FinancialReport, error) {
	query := `
		SELECT ts_code, end_date, ann_date, report_type, end_type,
			income, balance, cash_flow, indicators
		FROM financial_reports
		WHERE ts_code = $1
		ORDER BY end_date ASC
	`

	rows, err := r.pool.Query(ctx, query, tsCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []market.FinancialReport
	for rows.Next() {
		var (
			report     market.FinancialReport
			annDate    *time.Time
			income     []byte
			balance    []byte
			cashFlow   []byte
			indicators []byte
		)
		if err := rows.Scan(
			&report.TsCode, &report.EndDate, &annDate, &report.ReportType, &report.EndType,
			&income, &balance, &cashFlow, &indicators,
		); err != nil {
			return nil, err
		}
		report.AnnDate = dateValue(annDate)
		if err := unmarshalStatement(income, &report.Income); err != nil {
			return nil, fmt.Errorf("unmarshal income statement: %w", err)
		}
		if err := unmarshalStatement(balance, &report.Balance); err != nil {
			return nil, fmt.Errorf("unmarshal balance sheet: %w", err)
		}
		if err := unmarshalStatement(cashFlow, &report.CashFlow); err != nil {
			return nil, fmt.Errorf("unmarshal cash flow statement: %w", err)
		}
		if err := unmarshalStatement(indicators, &report.Indicators); err != nil {
			return nil, fmt.Errorf("unmarshal indicators: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// marshalStatement encodes a statement pointer, mapping nil to SQL NULL.
func marshalStatement[T any](s *T) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// unmarshalStatement decodes a JSONB column into a statement pointer,
// mapping SQL NULL to nil.
func unmarshalStatement[T any](data []byte, dst **T) error {
	if len(data) == 0 {
		*dst = nil
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	*dst = v
	return nil
}
