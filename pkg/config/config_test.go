package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 10 {
		t.Errorf("Expected DB MaxConns to be 10, got %d", cfg.Database.MaxConns)
	}

	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("Expected MaxConnLifetime to be 1h, got %v", cfg.Database.MaxConnLifetime)
	}

	if cfg.Tushare.BaseURL != "https://api.tushare.pro" {
		t.Errorf("Expected default Tushare base URL, got %s", cfg.Tushare.BaseURL)
	}

	if cfg.Tushare.RateLimit != 80 {
		t.Errorf("Expected Tushare rate limit 80, got %d", cfg.Tushare.RateLimit)
	}

	if cfg.Backtest.InitialCapital != 1_000_000 {
		t.Errorf("Expected initial capital 1000000, got %f", cfg.Backtest.InitialCapital)
	}

	if cfg.Backtest.DiscountRate != 0.10 {
		t.Errorf("Expected discount rate 0.10, got %f", cfg.Backtest.DiscountRate)
	}

	if cfg.Backtest.RiskFreeRate != 0.03 {
		t.Errorf("Expected risk-free rate 0.03, got %f", cfg.Backtest.RiskFreeRate)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("ENV", "production")
	os.Setenv("TUSHARE_TOKEN", "secret")
	os.Setenv("TUSHARE_RATE_LIMIT", "200")
	os.Setenv("DB_MAX_CONNS", "50")
	os.Setenv("VALUATION_DISCOUNT_RATE", "0.08")

	defer func() {
		os.Unsetenv("ENV")
		os.Unsetenv("TUSHARE_TOKEN")
		os.Unsetenv("TUSHARE_RATE_LIMIT")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("VALUATION_DISCOUNT_RATE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("Expected IsProduction() to be true")
	}

	if cfg.Tushare.Token != "secret" {
		t.Errorf("Expected token to be set, got %s", cfg.Tushare.Token)
	}

	if cfg.Tushare.RateLimit != 200 {
		t.Errorf("Expected rate limit 200, got %d", cfg.Tushare.RateLimit)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}

	if cfg.Backtest.DiscountRate != 0.08 {
		t.Errorf("Expected discount rate 0.08, got %f", cfg.Backtest.DiscountRate)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/ashare", MaxConns: 10, MinConns: 2},
		Backtest: BacktestConfig{InitialCapital: 100000},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	cfg.Database.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing DATABASE_URL")
	}
	cfg.Database.URL = "postgres://localhost/ashare"

	cfg.Database.MaxConns = 1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for MaxConns < MinConns")
	}
	cfg.Database.MaxConns = 10

	cfg.Backtest.InitialCapital = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for non-positive initial capital")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("TEST_STR", "hello")
	os.Setenv("TEST_INT", "42")
	os.Setenv("TEST_FLOAT", "1.5")
	os.Setenv("TEST_BAD_INT", "not-a-number")

	defer func() {
		os.Unsetenv("TEST_STR")
		os.Unsetenv("TEST_INT")
		os.Unsetenv("TEST_FLOAT")
		os.Unsetenv("TEST_BAD_INT")
	}()

	if got := getEnv("TEST_STR", "fallback"); got != "hello" {
		t.Errorf("getEnv: got %s", got)
	}
	if got := getEnv("TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv fallback: got %s", got)
	}
	if got := getEnvAsInt("TEST_INT", 0); got != 42 {
		t.Errorf("getEnvAsInt: got %d", got)
	}
	if got := getEnvAsInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt bad value: got %d", got)
	}
	if got := getEnvAsFloat("TEST_FLOAT", 0); got != 1.5 {
		t.Errorf("getEnvAsFloat: got %f", got)
	}
	if got := getEnvAsDuration("TEST_MISSING_DURATION", "90s"); got != 90*time.Second {
		t.Errorf("getEnvAsDuration fallback: got %v", got)
	}
}
