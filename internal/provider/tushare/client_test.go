package tushare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ashare/internal/market"
	"github.com/wonny/ashare/pkg/config"
	"github.com/wonny/ashare/pkg/logger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeServer answers every request with one canned payload and records
// the last decoded request body.
func fakeServer(t *testing.T, fields []string, items [][]interface{}) (*httptest.Server, *apiRequest) {
	t.Helper()
	var lastReq apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))
		resp := map[string]interface{}{
			"code": 0,
			"msg":  "",
			"data": map[string]interface{}{
				"fields": fields,
				"items":  items,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &lastReq
}

func testClient(baseURL string) *Client {
	cfg := &config.Config{
		Tushare: config.TushareConfig{
			Token:   "test-token",
			BaseURL: baseURL,
		},
	}
	return NewClient(cfg, logger.NewNop())
}

func TestFetchDailyQuotes(t *testing.T) {
	srv, lastReq := fakeServer(t,
		[]string{"ts_code", "trade_date", "open", "close", "vol"},
		[][]interface{}{
			{"600900.SH", "20240102", 22.5, 23.1, 1000.0},
			{"600900.SH", "20240103", 23.1, 22.8, 900.0},
		})

	quotes, err := testClient(srv.URL).FetchDailyQuotes(context.Background(),
		"600900.SH", date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "daily", lastReq.APIName)
	assert.Equal(t, "test-token", lastReq.Token)
	assert.Equal(t, "600900.SH", lastReq.Params["ts_code"])
	assert.Equal(t, "20240101", lastReq.Params["start_date"])
	assert.Equal(t, "20240131", lastReq.Params["end_date"])

	q := quotes[0]
	assert.Equal(t, "600900.SH", q.TsCode)
	assert.True(t, q.TradeDate.Equal(date(2024, 1, 2)))
	assert.True(t, q.Open.Equal(decimal.NewFromFloat(22.5)))
	assert.True(t, q.Close.Equal(decimal.NewFromFloat(23.1)))

	// Fields the server did not return come back zero, not garbage.
	assert.True(t, q.High.IsZero())
}

func TestFetchStockList(t *testing.T) {
	srv, lastReq := fakeServer(t,
		[]string{"ts_code", "name", "list_date"},
		[][]interface{}{
			{"600900.SH", "长江电力", "20031118"},
		})

	stocks, err := testClient(srv.URL).FetchStockList(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 1)

	assert.Equal(t, "stock_basic", lastReq.APIName)
	assert.Equal(t, "L", lastReq.Params["list_status"])
	assert.Equal(t, "长江电力", stocks[0].Name)
	assert.True(t, stocks[0].ListDate.Equal(date(2003, 11, 18)))
}

func TestFetchDividendsStatusMapping(t *testing.T) {
	srv, _ := fakeServer(t,
		[]string{"ts_code", "end_date", "div_proc", "cash_div", "ex_date"},
		[][]interface{}{
			{"600900.SH", "20231231", "实施", 0.82, "20240712"},
			{"600900.SH", "20241231", "预案", 0.85, nil},
			{"600900.SH", "20221231", "不分配", nil, nil},
			{"600900.SH", "20211231", "something else", nil, nil},
		})

	dividends, err := testClient(srv.URL).FetchDividends(context.Background(), "600900.SH")
	require.NoError(t, err)
	require.Len(t, dividends, 4)

	assert.Equal(t, market.DivExecuted, dividends[0].DivProc)
	assert.True(t, dividends[0].Effective())
	assert.True(t, dividends[0].CashDiv.Equal(decimal.NewFromFloat(0.82)))

	assert.Equal(t, market.DivProposed, dividends[1].DivProc)
	assert.False(t, dividends[1].Effective())

	assert.Equal(t, market.DivNone, dividends[2].DivProc)
	assert.True(t, dividends[2].CashDiv.IsZero(), "null cash_div maps to zero")

	assert.Equal(t, market.DivVoid, dividends[3].DivProc)
}

func TestQueryAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 40001,
			"msg":  "token invalid",
		})
	}))
	t.Cleanup(srv.Close)

	_, err := testClient(srv.URL).FetchStockList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001")
	assert.Contains(t, err.Error(), "token invalid")
}

func TestRowHelpers(t *testing.T) {
	r := row{
		index:  map[string]int{"name": 0, "date": 1, "num": 2, "numstr": 3, "null": 4},
		values: []interface{}{"a", "20240102", 1.5, "2.5", nil},
	}

	assert.Equal(t, "a", r.str("name"))
	assert.True(t, r.date("date").Equal(date(2024, 1, 2)))
	assert.True(t, r.dec("num").Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, r.dec("numstr").Equal(decimal.NewFromFloat(2.5)))

	assert.Nil(t, r.decPtr("null"))
	assert.Nil(t, r.decPtr("absent"))
	assert.True(t, r.dec("null").IsZero())
	assert.True(t, r.date("absent").IsZero())
}
