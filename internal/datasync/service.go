package datasync

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/pkg/logger"
)

// defaultStart bounds the first fetch for a security with no cached
// history and no listing date.
var defaultStart = time.Date(1990, 12, 19, 0, 0, 0, 0, time.UTC)

// Provider fetches upstream market data.
type Provider interface {
	FetchStockList(ctx context.Context) ([]market.Stock, error)
	FetchDailyQuotes(ctx context.Context, tsCode string, from, to time.Time) ([]market.DailyQuote, error)
	FetchDailyIndicators(ctx context.Context, tsCode string, from, to time.Time) ([]market.DailyIndicator, error)
	FetchDividends(ctx context.Context, tsCode string) ([]market.Dividend, error)
	FetchFinancialReports(ctx context.Context, tsCode string, from, to time.Time) ([]market.FinancialReport, error)
}

// StockStore persists reference data for securities.
type StockStore interface {
	SaveBatch(ctx context.Context, stocks []market.Stock) error
	FindByCode(ctx context.Context, tsCode string) (*market.Stock, error)
}

// QuoteStore persists daily quotes.
type QuoteStore interface {
	SaveBatch(ctx context.Context, quotes []market.DailyQuote) error
	LatestDate(ctx context.Context, tsCode string) (time.Time, error)
}

// IndicatorStore persists daily indicators.
type IndicatorStore interface {
	SaveBatch(ctx context.Context, indicators []market.DailyIndicator) error
	LatestDate(ctx context.Context, tsCode string) (time.Time, error)
}

// DividendStore persists dividend plans.
type DividendStore interface {
	SaveBatch(ctx context.Context, dividends []market.Dividend) error
}

// ReportStore persists financial reports.
type ReportStore interface {
	SaveBatch(ctx context.Context, reports []market.FinancialReport) error
}

// TaskStore records sync completion times.
type TaskStore interface {
	LastSyncTime(ctx context.Context, syncType string) (time.Time, error)
	MarkSynced(ctx context.Context, syncType string, at time.Time) error
}

// Service keeps the local cache in step with the upstream provider.
// Each sync type is skipped while its cached data is still fresh.
type Service struct {
	provider   Provider
	stocks     StockStore
	quotes     QuoteStore
	indicators IndicatorStore
	dividends  DividendStore
	reports    ReportStore
	tasks      TaskStore
	logger     *logger.Logger

	now func() time.Time
}

// NewService creates a sync service.
func NewService(
	provider Provider,
	stocks StockStore,
	quotes QuoteStore,
	indicators IndicatorStore,
	dividends DividendStore,
	reports ReportStore,
	tasks TaskStore,
	log *logger.Logger,
) *Service {
	return &Service{
		provider:   provider,
		stocks:     stocks,
		quotes:     quotes,
		indicators: indicators,
		dividends:  dividends,
		reports:    reports,
		tasks:      tasks,
		logger:     log,
		now:        time.Now,
	}
}

// taskKey scopes the freshness record. The stock list is global, the
// rest are tracked per security.
func taskKey(t SyncType, tsCode string) string {
	if t == SyncStockList {
		return string(t)
	}
	return string(t) + ":" + tsCode
}

// Sync refreshes one data type for a security if it is stale.
func (s *Service) Sync(ctx context.Context, t SyncType, tsCode string) error {
	key := taskKey(t, tsCode)

	lastSync, err := s.tasks.LastSyncTime(ctx, key)
	if err != nil {
		return fmt.Errorf("load sync state %s: %w", key, err)
	}

	now := s.now()
	if !NeedSync(lastSync, now, t) {
		s.logger.WithFields(map[string]interface{}{
			"sync_type": string(t),
			"ts_code":   tsCode,
			"last_sync": lastSync,
		}).Debug("Data still fresh, skipping sync")
		return nil
	}

	switch t {
	case SyncStockList:
		err = s.syncStockList(ctx)
	case SyncDailyQuote:
		err = s.syncDailyQuotes(ctx, tsCode)
	case SyncDailyIndicator:
		err = s.syncDailyIndicators(ctx, tsCode)
	case SyncDividend:
		err = s.syncDividends(ctx, tsCode)
	case SyncFinancialReport:
		err = s.syncFinancialReports(ctx, tsCode)
	default:
		return fmt.Errorf("unknown sync type %q", t)
	}
	if err != nil {
		return fmt.Errorf("sync %s: %w", key, err)
	}

	if err := s.tasks.MarkSynced(ctx, key, now); err != nil {
		return fmt.Errorf("mark synced %s: %w", key, err)
	}
	return nil
}

// SyncAll refreshes every data type for a security.
func (s *Service) SyncAll(ctx context.Context, tsCode string) error {
	for _, t := range AllSyncTypes {
		if err := s.Sync(ctx, t, tsCode); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) syncStockList(ctx context.Context) error {
	stocks, err := s.provider.FetchStockList(ctx)
	if err != nil {
		return err
	}
	if err := s.stocks.SaveBatch(ctx, stocks); err != nil {
		return err
	}
	s.logger.WithField("count", len(stocks)).Info("Stock list synced")
	return nil
}

// fetchStart picks where an incremental fetch resumes: the day after
// the latest cached row, else the listing date, else defaultStart.
func (s *Service) fetchStart(ctx context.Context, tsCode string, latest time.Time) (time.Time, error) {
	if !latest.IsZero() {
		return latest.AddDate(0, 0, 1), nil
	}
	stock, err := s.stocks.FindByCode(ctx, tsCode)
	if err != nil {
		return time.Time{}, err
	}
	if stock != nil && !stock.ListDate.IsZero() {
		return stock.ListDate, nil
	}
	return defaultStart, nil
}

func (s *Service) syncDailyQuotes(ctx context.Context, tsCode string) error {
	latest, err := s.quotes.LatestDate(ctx, tsCode)
	if err != nil {
		return err
	}
	from, err := s.fetchStart(ctx, tsCode, latest)
	if err != nil {
		return err
	}
	to := s.now()
	if from.After(to) {
		return nil
	}

	quotes, err := s.provider.FetchDailyQuotes(ctx, tsCode, from, to)
	if err != nil {
		return err
	}
	if err := s.quotes.SaveBatch(ctx, quotes); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"ts_code": tsCode,
		"from":    from.Format("2006-01-02"),
		"count":   len(quotes),
	}).Info("Daily quotes synced")
	return nil
}

func (s *Service) syncDailyIndicators(ctx context.Context, tsCode string) error {
	latest, err := s.indicators.LatestDate(ctx, tsCode)
	if err != nil {
		return err
	}
	from, err := s.fetchStart(ctx, tsCode, latest)
	if err != nil {
		return err
	}
	to := s.now()
	if from.After(to) {
		return nil
	}

	indicators, err := s.provider.FetchDailyIndicators(ctx, tsCode, from, to)
	if err != nil {
		return err
	}
	if err := s.indicators.SaveBatch(ctx, indicators); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"ts_code": tsCode,
		"from":    from.Format("2006-01-02"),
		"count":   len(indicators),
	}).Info("Daily indicators synced")
	return nil
}

// syncDividends always refetches the full history: upstream rows are
// keyed by fiscal period and plans mutate as they move from proposal
// to execution.
func (s *Service) syncDividends(ctx context.Context, tsCode string) error {
	dividends, err := s.provider.FetchDividends(ctx, tsCode)
	if err != nil {
		return err
	}
	if err := s.dividends.SaveBatch(ctx, dividends); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"ts_code": tsCode,
		"count":   len(dividends),
	}).Info("Dividends synced")
	return nil
}

func (s *Service) syncFinancialReports(ctx context.Context, tsCode string) error {
	from, err := s.fetchStart(ctx, tsCode, time.Time{})
	if err != nil {
		return err
	}
	to := s.now()

	reports, err := s.provider.FetchFinancialReports(ctx, tsCode, from, to)
	if err != nil {
		return err
	}
	if err := s.reports.SaveBatch(ctx, reports); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"ts_code": tsCode,
		"count":   len(reports),
	}).Info("Financial reports synced")
	return nil
}
