package commands

import (
	"context"
	"fmt"

	"github.com/wonny/ashare/internal/backtest"
	"github.com/wonny/ashare/internal/store"
	"github.com/wonny/ashare/pkg/config"
	"github.com/wonny/ashare/pkg/database"
	"github.com/wonny/ashare/pkg/logger"
)

// app holds everything a command needs after bootstrap.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB

	stocks     *store.StockRepository
	quotes     *store.QuoteRepository
	indicators *store.IndicatorRepository
	dividends  *store.DividendRepository
	reports    *store.ReportRepository
	tasks      *store.SyncTaskRepository
}

// newApp loads configuration and connects to the database.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		stocks:     store.NewStockRepository(db.Pool),
		quotes:     store.NewQuoteRepository(db.Pool),
		indicators: store.NewIndicatorRepository(db.Pool),
		dividends:  store.NewDividendRepository(db.Pool),
		reports:    store.NewReportRepository(db.Pool),
		tasks:      store.NewSyncTaskRepository(db.Pool),
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

// loadData materializes the full cached history for one security.
func (a *app) loadData(ctx context.Context, tsCode string) (*backtest.Data, error) {
	stock, err := a.stocks.FindByCode(ctx, tsCode)
	if err != nil {
		return nil, fmt.Errorf("load stock %s: %w", tsCode, err)
	}
	if stock == nil {
		return nil, fmt.Errorf("stock %s not found, run sync first", tsCode)
	}

	quotes, err := a.quotes.FindByCode(ctx, tsCode)
	if err != nil {
		return nil, fmt.Errorf("load quotes %s: %w", tsCode, err)
	}
	indicators, err := a.indicators.FindByCode(ctx, tsCode)
	if err != nil {
		return nil, fmt.Errorf("load indicators %s: %w", tsCode, err)
	}
	dividends, err := a.dividends.FindByCode(ctx, tsCode)
	if err != nil {
		return nil, fmt.Errorf("load dividends %s: %w", tsCode, err)
	}
	reports, err := a.reports.FindByCode(ctx, tsCode)
	if err != nil {
		return nil, fmt.Errorf("load reports %s: %w", tsCode, err)
	}

	return &backtest.Data{
		Stock:      *stock,
		Quotes:     quotes,
		Indicators: indicators,
		Dividends:  dividends,
		Reports:    reports,
	}, nil
}
