package datasync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/pkg/logger"
)

type fakeProvider struct {
	stockListCalls int
	quoteCalls     []fetchRange
	indicatorCalls []fetchRange
	dividendCalls  int
	reportCalls    int
}

type fetchRange struct {
	from, to time.Time
}

func (f *fakeProvider) FetchStockList(ctx context.Context) ([]market.Stock, error) {
	f.stockListCalls++
	return []market.Stock{{TsCode: "600900.SH", Name: "长江电力"}}, nil
}

func (f *fakeProvider) FetchDailyQuotes(ctx context.Context, tsCode string, from, to time.Time) ([]market.DailyQuote, error) {
	f.quoteCalls = append(f.quoteCalls, fetchRange{from, to})
	return []market.DailyQuote{{TsCode: tsCode, TradeDate: from}}, nil
}

func (f *fakeProvider) FetchDailyIndicators(ctx context.Context, tsCode string, from, to time.Time) ([]market.DailyIndicator, error) {
	f.indicatorCalls = append(f.indicatorCalls, fetchRange{from, to})
	return nil, nil
}

func (f *fakeProvider) FetchDividends(ctx context.Context, tsCode string) ([]market.Dividend, error) {
	f.dividendCalls++
	return nil, nil
}

func (f *fakeProvider) FetchFinancialReports(ctx context.Context, tsCode string, from, to time.Time) ([]market.FinancialReport, error) {
	f.reportCalls++
	return nil, nil
}

type memStocks struct {
	saved []market.Stock
	stock *market.Stock
}

func (m *memStocks) SaveBatch(ctx context.Context, stocks []market.Stock) error {
	m.saved = append(m.saved, stocks...)
	return nil
}

func (m *memStocks) FindByCode(ctx context.Context, tsCode string) (*market.Stock, error) {
	return m.stock, nil
}

type memQuotes struct {
	saved  []market.DailyQuote
	latest time.Time
}

func (m *memQuotes) SaveBatch(ctx context.Context, quotes []market.DailyQuote) error {
	m.saved = append(m.saved, quotes...)
	return nil
}

func (m *memQuotes) LatestDate(ctx context.Context, tsCode string) (time.Time, error) {
	return m.latest, nil
}

type memIndicators struct {
	latest time.Time
}

func (m *memIndicators) SaveBatch(ctx context.Context, indicators []market.DailyIndicator) error {
	return nil
}

func (m *memIndicators) LatestDate(ctx context.Context, tsCode string) (time.Time, error) {
	return m.latest, nil
}

type memDividends struct{}

func (memDividends) SaveBatch(ctx context.Context, dividends []market.Dividend) error { return nil }

type memReports struct{}

func (memReports) SaveBatch(ctx context.Context, reports []market.FinancialReport) error { return nil }

type memTasks struct {
	times map[string]time.Time
}

func newMemTasks() *memTasks {
	return &memTasks{times: make(map[string]time.Time)}
}

func (m *memTasks) LastSyncTime(ctx context.Context, syncType string) (time.Time, error) {
	return m.times[syncType], nil
}

func (m *memTasks) MarkSynced(ctx context.Context, syncType string, at time.Time) error {
	m.times[syncType] = at
	return nil
}

type fixture struct {
	service    *Service
	provider   *fakeProvider
	stocks     *memStocks
	quotes     *memQuotes
	indicators *memIndicators
	tasks      *memTasks
	now        time.Time
}

func newFixture() *fixture {
	f := &fixture{
		provider:   &fakeProvider{},
		stocks:     &memStocks{},
		quotes:     &memQuotes{},
		indicators: &memIndicators{},
		tasks:      newMemTasks(),
		now:        time.Date(2024, 6, 28, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewService(f.provider, f.stocks, f.quotes, f.indicators,
		memDividends{}, memReports{}, f.tasks, logger.NewNop())
	f.service.now = func() time.Time { return f.now }
	return f
}

func TestNeedSync(t *testing.T) {
	now := time.Date(2024, 6, 28, 9, 0, 0, 0, time.UTC)

	// Never synced.
	assert.True(t, NeedSync(time.Time{}, now, SyncDailyQuote))

	// Fresh daily data.
	assert.False(t, NeedSync(now.Add(-1*time.Hour), now, SyncDailyQuote))

	// Stale daily data.
	assert.True(t, NeedSync(now.Add(-25*time.Hour), now, SyncDailyQuote))

	// Weekly types tolerate longer gaps.
	assert.False(t, NeedSync(now.Add(-3*24*time.Hour), now, SyncStockList))
	assert.True(t, NeedSync(now.Add(-8*24*time.Hour), now, SyncFinancialReport))
}

func TestSyncStockList(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.Sync(context.Background(), SyncStockList, ""))
	assert.Equal(t, 1, f.provider.stockListCalls)
	assert.Len(t, f.stocks.saved, 1)

	// Second run within the freshness window is a no-op.
	require.NoError(t, f.service.Sync(context.Background(), SyncStockList, ""))
	assert.Equal(t, 1, f.provider.stockListCalls)

	// A week later it refreshes.
	f.now = f.now.Add(8 * 24 * time.Hour)
	require.NoError(t, f.service.Sync(context.Background(), SyncStockList, ""))
	assert.Equal(t, 2, f.provider.stockListCalls)
}

func TestSyncQuotesIncremental(t *testing.T) {
	f := newFixture()
	f.quotes.latest = time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.service.Sync(context.Background(), SyncDailyQuote, "600900.SH"))
	require.Len(t, f.provider.quoteCalls, 1)

	// Resumes the day after the latest cached row.
	call := f.provider.quoteCalls[0]
	assert.True(t, call.from.Equal(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)))
	assert.True(t, call.to.Equal(f.now))
	assert.Len(t, f.quotes.saved, 1)
}

func TestSyncQuotesStartsFromListDate(t *testing.T) {
	f := newFixture()
	listDate := time.Date(2003, 11, 18, 0, 0, 0, 0, time.UTC)
	f.stocks.stock = &market.Stock{TsCode: "600900.SH", ListDate: listDate}

	require.NoError(t, f.service.Sync(context.Background(), SyncDailyQuote, "600900.SH"))
	require.Len(t, f.provider.quoteCalls, 1)
	assert.True(t, f.provider.quoteCalls[0].from.Equal(listDate))
}

func TestSyncQuotesDefaultStart(t *testing.T) {
	f := newFixture()

	// No cached rows and no known listing date.
	require.NoError(t, f.service.Sync(context.Background(), SyncDailyQuote, "600900.SH"))
	require.Len(t, f.provider.quoteCalls, 1)
	assert.True(t, f.provider.quoteCalls[0].from.Equal(defaultStart))
}

func TestSyncQuotesAlreadyCurrent(t *testing.T) {
	f := newFixture()
	// Latest cached row is today: nothing to fetch, but the task is
	// still marked complete.
	f.quotes.latest = f.now

	require.NoError(t, f.service.Sync(context.Background(), SyncDailyQuote, "600900.SH"))
	assert.Empty(t, f.provider.quoteCalls)

	last, err := f.tasks.LastSyncTime(context.Background(), "daily_quote:600900.SH")
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestSyncUnknownType(t *testing.T) {
	f := newFixture()

	err := f.service.Sync(context.Background(), SyncType("bogus"), "600900.SH")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sync type")
}

func TestSyncAll(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.SyncAll(context.Background(), "600900.SH"))
	assert.Equal(t, 1, f.provider.stockListCalls)
	assert.Len(t, f.provider.quoteCalls, 1)
	assert.Len(t, f.provider.indicatorCalls, 1)
	assert.Equal(t, 1, f.provider.dividendCalls)
	assert.Equal(t, 1, f.provider.reportCalls)
}

func TestTaskKeyScoping(t *testing.T) {
	assert.Equal(t, "stock_list", taskKey(SyncStockList, "600900.SH"))
	assert.Equal(t, "daily_quote:600900.SH", taskKey(SyncDailyQuote, "600900.SH"))
}
