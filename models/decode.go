package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
)

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// DecodeMarketData parses and validates a MarketData object. Every field is required.
func DecodeMarketData(data []byte) (MarketData, error) {
	var raw struct {
		VIX              *float64 `json:"vix"`
		Sentiment        *string  `json:"sentiment"`
		SP500Performance *float64 `json:"sp500_performance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return MarketData{}, fmt.Errorf("decode market data: %w", err)
	}
	switch {
	case raw.VIX == nil:
		return MarketData{}, missing("vix")
	case raw.Sentiment == nil:
		return MarketData{}, missing("sentiment")
	case raw.SP500Performance == nil:
		return MarketData{}, missing("sp500_performance")
	}

	md := MarketData{
		VIX:              *raw.VIX,
		Sentiment:        *raw.Sentiment,
		SP500Performance: *raw.SP500Performance,
	}
	if err := md.Validate(); err != nil {
		return MarketData{}, err
	}
	return md, nil
}

func DecodeRiskReport(data []byte) (RiskReport, error) {
	var raw struct {
		Beta          *float64  `json:"beta"`
		VaR95         *float64  `json:"var_95"`
		ExposedAssets *[]string `json:"exposed_assets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return RiskReport{}, fmt.Errorf("decode risk report: %w", err)
	}
	switch {
	case raw.Beta == nil:
		return RiskReport{}, missing("beta")
	case raw.VaR95 == nil:
		return RiskReport{}, missing("var_95")
	case raw.ExposedAssets == nil || *raw.ExposedAssets == nil:
		return RiskReport{}, missing("exposed_assets")
	}

	return RiskReport{
		Beta:          *raw.Beta,
		VaR95:         *raw.VaR95,
		ExposedAssets: *raw.ExposedAssets,
	}, nil
}

func DecodeHedgingInstruction(data []byte) (HedgingInstruction, error) {
	var raw struct {
		Action    *string      `json:"action"`
		Ticker    *string      `json:"ticker"`
		Quantity  *json.Number `json:"quantity"`
		Reasoning *string      `json:"reasoning"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return HedgingInstruction{}, fmt.Errorf("decode hedging instruction: %w", err)
	}
	switch {
	case raw.Action == nil:
		return HedgingInstruction{}, missing("action")
	case raw.Ticker == nil:
		return HedgingInstruction{}, missing("ticker")
	case raw.Quantity == nil:
		return HedgingInstruction{}, missing("quantity")
	case raw.Reasoning == nil:
		return HedgingInstruction{}, missing("reasoning")
	}

	qty, err := wholeNumber(*raw.Quantity)
	if err != nil {
		return HedgingInstruction{}, err
	}

	hi := HedgingInstruction{
		Action:    *raw.Action,
		Ticker:    *raw.Ticker,
		Quantity:  qty,
		Reasoning: *raw.Reasoning,
	}
	if err := hi.Validate(); err != nil {
		return HedgingInstruction{}, err
	}
	return hi, nil
}

// wholeNumber accepts 100 and 100.0 but not 1.5.
func wholeNumber(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: quantity %s is not an integer", ErrInvalidField, n.String())
	}
	return int64(f), nil
}
