package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMarketData(t *testing.T) {
	md, err := DecodeMarketData([]byte(`{"vix": 22.5, "sentiment": "neutral", "sp500_performance": 0.004}`))
	require.NoError(t, err)
	assert.Equal(t, MarketData{VIX: 22.5, Sentiment: "neutral", SP500Performance: 0.004}, md)

	_, err = DecodeMarketData([]byte(`{"vix": 22.5, "sentiment": "neutral"}`))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeMarketData([]byte(`{"vix": 22.5, "sentiment": "Negative", "sp500_performance": 0}`))
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = DecodeMarketData([]byte(`{"vix": "high", "sentiment": "neutral", "sp500_performance": 0}`))
	assert.Error(t, err)
}

func TestDecodeRiskReport(t *testing.T) {
	r, err := DecodeRiskReport([]byte(`{"beta": 1.2, "var_95": 1500, "exposed_assets": ["AAPL", "AAPL"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "AAPL"}, r.ExposedAssets)

	r, err = DecodeRiskReport([]byte(`{"beta": 1.2, "var_95": 1500, "exposed_assets": []}`))
	require.NoError(t, err)
	assert.Empty(t, r.ExposedAssets)
	assert.NotNil(t, r.ExposedAssets)

	_, err = DecodeRiskReport([]byte(`{"beta": 1.2, "var_95": 1500, "exposed_assets": null}`))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestDecodeHedgingInstruction(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    HedgingInstruction
		wantErr error
	}{
		{
			name: "integer quantity",
			in:   `{"action":"BUY","ticker":"AAPL","quantity":10,"reasoning":"r"}`,
			want: HedgingInstruction{Action: "BUY", Ticker: "AAPL", Quantity: 10, Reasoning: "r"},
		},
		{
			name: "whole float quantity",
			in:   `{"action":"SELL","ticker":"SPY","quantity":100.0,"reasoning":"r"}`,
			want: HedgingInstruction{Action: "SELL", Ticker: "SPY", Quantity: 100, Reasoning: "r"},
		},
		{
			name: "no action needed",
			in:   `{"action":"NO ACTION NEEDED","ticker":"","quantity":0,"reasoning":"calm"}`,
			want: HedgingInstruction{Action: "NO ACTION NEEDED", Reasoning: "calm"},
		},
		{name: "fractional quantity", in: `{"action":"BUY","ticker":"AAPL","quantity":1.5,"reasoning":"r"}`, wantErr: ErrInvalidField},
		{name: "lowercase action", in: `{"action":"buy","ticker":"AAPL","quantity":1,"reasoning":"r"}`, wantErr: ErrInvalidField},
		{name: "missing reasoning", in: `{"action":"BUY","ticker":"AAPL","quantity":1}`, wantErr: ErrMissingField},
		{name: "missing quantity", in: `{"action":"BUY","ticker":"AAPL","reasoning":"r"}`, wantErr: ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHedgingInstruction([]byte(tt.in))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallbacksAreValid(t *testing.T) {
	assert.NoError(t, FallbackMarketData().Validate())
	assert.NoError(t, FallbackRiskReport().Validate())
	assert.NoError(t, FallbackHedgingInstruction().Validate())
	assert.Equal(t, "SPY", FallbackHedgingInstruction().Ticker)
	assert.Equal(t, int64(100), FallbackHedgingInstruction().Quantity)
}

func TestPortfolioSnapshotJSON(t *testing.T) {
	s := PortfolioSnapshot{Cash: decimal.RequireFromString("91250"), Holdings: map[string]int64{"AAPL": 50}}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cash": 91250, "holdings": {"AAPL": 50}}`, string(b))

	b, err = json.Marshal(PortfolioSnapshot{Cash: decimal.Zero})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cash": 0, "holdings": {}}`, string(b))
}

func TestPresentationFormatting(t *testing.T) {
	mc := NewMarketConditions(FallbackMarketData())
	assert.Equal(t, "Negative", mc.Sentiment)
	assert.Equal(t, "-2.00%", mc.SP500Performance)

	ra := NewRiskAssessment(FallbackRiskReport())
	assert.Equal(t, "$50,000.00", ra.ValueAtRisk95)
	assert.Equal(t, "$1,234.50", FormatMoney(1234.5))
	assert.Equal(t, "-$10.00", FormatMoney(-10))

	before := PortfolioSnapshot{Cash: decimal.NewFromInt(100000)}
	after := PortfolioSnapshot{Cash: decimal.NewFromInt(91250), Holdings: map[string]int64{"AAPL": 50}}
	ps := NewPortfolioSummary(before, after, 100000)
	assert.Equal(t, "$100,000.00", ps.InitialCash)
	assert.Equal(t, "$91,250.00", ps.FinalCash)
	assert.Equal(t, 1, ps.TotalHoldings)
}
