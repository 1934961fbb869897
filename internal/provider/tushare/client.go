// Package tushare is the Tushare Pro data-provider client. Every dataset
// goes through one JSON-over-HTTP endpoint addressed by api_name.
package tushare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/ashare/pkg/config"
	"github.com/wonny/ashare/pkg/httputil"
	"github.com/wonny/ashare/pkg/logger"
)

const dateLayout = "20060102"

// Client calls the Tushare Pro API with bounded retry and rate limiting.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	token   string
	baseURL string
}

// NewClient creates a client from config. The retry decorator and the
// per-minute rate limit wrap every call.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http: httputil.New(log).
			WithTimeout(60 * time.Second).
			WithRetry(3, 2*time.Second).
			WithRateLimit(cfg.Tushare.RateLimit),
		logger:  log,
		token:   cfg.Tushare.Token,
		baseURL: cfg.Tushare.BaseURL,
	}
}

type apiRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params,omitempty"`
	Fields  string            `json:"fields,omitempty"`
}

type apiResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

// query invokes one api_name and returns the result rows keyed by field.
func (c *Client) query(ctx context.Context, apiName string, params map[string]string, fields string) ([]row, error) {
	req := apiRequest{
		APIName: apiName,
		Token:   c.token,
		Params:  params,
		Fields:  fields,
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL, req)
	if err != nil {
		return nil, fmt.Errorf("tushare %s request failed: %w", apiName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tushare %s: unexpected status %d", apiName, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tushare %s: decode response: %w", apiName, err)
	}
	if payload.Code != 0 {
		return nil, fmt.Errorf("tushare %s: api error %d: %s", apiName, payload.Code, payload.Msg)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("tushare %s: empty data", apiName)
	}

	index := make(map[string]int, len(payload.Data.Fields))
	for i, f := range payload.Data.Fields {
		index[f] = i
	}

	rows := make([]row, 0, len(payload.Data.Items))
	for _, item := range payload.Data.Items {
		rows = append(rows, row{index: index, values: item})
	}

	c.logger.WithFields(map[string]interface{}{
		"api_name": apiName,
		"rows":     len(rows),
	}).Debug("Tushare query completed")

	return rows, nil
}

// row is one result record addressed by field name.
type row struct {
	index  map[string]int
	values []interface{}
}

func (r row) raw(name string) interface{} {
	i, ok := r.index[name]
	if !ok || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

func (r row) str(name string) string {
	if s, ok := r.raw(name).(string); ok {
		return s
	}
	return ""
}

// date parses a YYYYMMDD field; absent or malformed values are zero.
func (r row) date(name string) time.Time {
	s := r.str(name)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r row) dec(name string) decimal.Decimal {
	if p := r.decPtr(name); p != nil {
		return *p
	}
	return decimal.Zero
}

// decPtr returns nil when the field is absent or null, so the caller can
// distinguish "not reported" from a genuine zero.
func (r row) decPtr(name string) *decimal.Decimal {
	switch v := r.raw(name).(type) {
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil
		}
		return &d
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}
