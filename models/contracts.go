package models

import (
	"encoding/json"
	"fmt"

	"github.com/dyike/QuantHedge/consts"
	"github.com/shopspring/decimal"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// MarketData is one simulated market snapshot.
type MarketData struct {
	VIX              float64 `json:"vix"`
	Sentiment        string  `json:"sentiment"`
	SP500Performance float64 `json:"sp500_performance"` // fractional, -0.02 = -2%
}

type RiskReport struct {
	Beta          float64  `json:"beta"`
	VaR95         float64  `json:"var_95"`
	ExposedAssets []string `json:"exposed_assets"`
}

// HedgingInstruction is the single trade the strategy stage decides on.
type HedgingInstruction struct {
	Action    string `json:"action"`
	Ticker    string `json:"ticker"`
	Quantity  int64  `json:"quantity"`
	Reasoning string `json:"reasoning"`
}

func FallbackMarketData() MarketData {
	return MarketData{VIX: 40.0, Sentiment: SentimentNegative, SP500Performance: -0.02}
}

func FallbackRiskReport() RiskReport {
	return RiskReport{Beta: 1.5, VaR95: 50000.0, ExposedAssets: []string{"TSLA", "GOOGL"}}
}

func FallbackHedgingInstruction() HedgingInstruction {
	return HedgingInstruction{
		Action:    consts.ActionSell,
		Ticker:    "SPY",
		Quantity:  100,
		Reasoning: "Fallback due to error.",
	}
}

func (m MarketData) Validate() error {
	switch m.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return nil
	}
	return fmt.Errorf("%w: sentiment %q not one of positive|negative|neutral", ErrInvalidField, m.Sentiment)
}

func (r RiskReport) Validate() error {
	if r.ExposedAssets == nil {
		return fmt.Errorf("%w: exposed_assets", ErrMissingField)
	}
	return nil
}

func (h HedgingInstruction) Validate() error {
	switch h.Action {
	case consts.ActionBuy, consts.ActionSell, consts.ActionHold, consts.ActionNone, consts.ActionNoActionNeeded:
		return nil
	}
	return fmt.Errorf("%w: action %q", ErrInvalidField, h.Action)
}

// PortfolioSnapshot is a read-only copy of the ledger.
type PortfolioSnapshot struct {
	Cash     decimal.Decimal  `json:"cash"`
	Holdings map[string]int64 `json:"holdings"`
}

// MarshalJSON writes cash as a bare JSON number so prompts and reports read naturally.
func (s PortfolioSnapshot) MarshalJSON() ([]byte, error) {
	holdings := s.Holdings
	if holdings == nil {
		holdings = map[string]int64{}
	}
	return json.Marshal(struct {
		Cash     json.Number      `json:"cash"`
		Holdings map[string]int64 `json:"holdings"`
	}{
		Cash:     json.Number(s.Cash.String()),
		Holdings: holdings,
	})
}

// TradeResult is what the execution stage reports back; it is never an error value.
type TradeResult struct {
	Status  string  `json:"status"`
	Code    string  `json:"code,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	Details string  `json:"details,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
}

func (t TradeResult) Succeeded() bool {
	return t.Status == consts.TradeSuccess
}

func NoTradeNeeded() TradeResult {
	return TradeResult{Status: consts.TradeNoTradeNeeded}
}

type RiskThresholds struct {
	MaxTradeSizePct  float64 `json:"max_trade_size_pct"`
	MaxVaRThreshold  float64 `json:"max_var_threshold"`
	MaxBetaThreshold float64 `json:"max_beta_threshold"`
}

// GovernanceAssessment is the human-in-the-loop verdict attached to every cycle.
type GovernanceAssessment struct {
	RequiresApproval bool           `json:"requires_approval"`
	ApprovalReason   string         `json:"approval_reason,omitempty"`
	TradeSizePct     float64        `json:"trade_size_pct"`
	RiskThresholds   RiskThresholds `json:"risk_thresholds"`
}
