package models

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MessageCycleComplete = "QuantHedge Autonomous Hedging Analysis Complete"
	MessageCycleError    = "QuantHedge Error"
)

// CycleReport is the outer envelope returned for every hedging cycle.
type CycleReport struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	CycleID   string     `json:"cycle_id,omitempty"`
	Prompt    string     `json:"prompt,omitempty"`
	Data      *CycleData `json:"data,omitempty"`
	Error     string     `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

type CycleData struct {
	PortfolioBefore  PortfolioSnapshot    `json:"portfolio_before"`
	MarketData       MarketData           `json:"market_data"`
	RiskReport       RiskReport           `json:"risk_report"`
	HedgingStrategy  HedgingInstruction   `json:"hedging_strategy"`
	TradeExecution   TradeResult          `json:"trade_execution"`
	PortfolioAfter   PortfolioSnapshot    `json:"portfolio_after"`
	Governance       GovernanceAssessment `json:"hitl_governance"`
	MarketConditions MarketConditions     `json:"market_conditions"`
	RiskAssessment   RiskAssessment       `json:"risk_assessment"`
	PortfolioSummary PortfolioSummary     `json:"portfolio_summary"`
}

// Presentation views, formatted for humans.

type MarketConditions struct {
	VIXLevel         float64 `json:"vix_level"`
	Sentiment        string  `json:"sentiment"`
	SP500Performance string  `json:"sp500_performance"`
}

type RiskAssessment struct {
	PortfolioBeta float64  `json:"portfolio_beta"`
	ValueAtRisk95 string   `json:"value_at_risk_95"`
	ExposedAssets []string `json:"exposed_assets"`
}

type PortfolioSummary struct {
	InitialCash    string `json:"initial_cash"`
	FinalCash      string `json:"final_cash"`
	TotalHoldings  int    `json:"total_holdings"`
	PortfolioValue string `json:"portfolio_value"`
}

func NewMarketConditions(md MarketData) MarketConditions {
	return MarketConditions{
		VIXLevel:         md.VIX,
		Sentiment:        TitleCase(md.Sentiment),
		SP500Performance: FormatPercent(md.SP500Performance),
	}
}

func NewRiskAssessment(r RiskReport) RiskAssessment {
	return RiskAssessment{
		PortfolioBeta: r.Beta,
		ValueAtRisk95: FormatMoney(r.VaR95),
		ExposedAssets: r.ExposedAssets,
	}
}

// NewPortfolioSummary. portfolioValue is the after-cycle total including holdings.
func NewPortfolioSummary(before, after PortfolioSnapshot, portfolioValue float64) PortfolioSummary {
	initial, _ := before.Cash.Float64()
	final, _ := after.Cash.Float64()
	return PortfolioSummary{
		InitialCash:    FormatMoney(initial),
		FinalCash:      FormatMoney(final),
		TotalHoldings:  len(after.Holdings),
		PortfolioValue: FormatMoney(portfolioValue),
	}
}

// FormatMoney renders 50000 as "$50,000.00".
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatPercent renders a fraction, -0.02 -> "-2.00%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// TitleCase. A Caser is stateful, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
