// Package display renders cycle reports for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1).
			Width(72)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(22)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func section(title string, rows ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{titleStyle.Render(title)}, rows...)...)
	return sectionStyle.Render(body)
}

// StatusStyle picks the colour for a trade status.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case consts.TradeSuccess:
		return okStyle
	case consts.TradeNoTradeNeeded, consts.TradePendingApproval:
		return warnStyle
	default:
		return errStyle
	}
}

// Render draws the report as bordered sections.
func Render(r *models.CycleReport) string {
	if r.Data == nil {
		return section("QuantHedge Error",
			row("Error", errStyle.Render(r.Error)),
			row("Timestamp", r.Timestamp),
		)
	}
	d := r.Data
	exposed := strings.Join(d.RiskAssessment.ExposedAssets, ", ")
	if exposed == "" {
		exposed = "none"
	}

	trade := []string{row("Status", StatusStyle(d.TradeExecution.Status).Render(d.TradeExecution.Status))}
	if d.TradeExecution.Code != "" {
		trade = append(trade, row("Code", d.TradeExecution.Code))
	}
	if d.TradeExecution.Details != "" {
		trade = append(trade, row("Details", d.TradeExecution.Details))
	}

	approval := okStyle.Render("not required")
	if d.Governance.RequiresApproval {
		approval = warnStyle.Render("required")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s  [%s]", models.MessageCycleComplete, r.CycleID)),
		section("Market Conditions",
			row("VIX Level", fmt.Sprintf("%v", d.MarketConditions.VIXLevel)),
			row("Sentiment", d.MarketConditions.Sentiment),
			row("S&P 500", d.MarketConditions.SP500Performance),
		),
		section("Risk Assessment",
			row("Portfolio Beta", fmt.Sprintf("%v", d.RiskAssessment.PortfolioBeta)),
			row("VaR (95%)", d.RiskAssessment.ValueAtRisk95),
			row("Exposed Assets", exposed),
		),
		section("Hedging Strategy",
			row("Action", d.HedgingStrategy.Action),
			row("Ticker", d.HedgingStrategy.Ticker),
			row("Quantity", fmt.Sprintf("%d", d.HedgingStrategy.Quantity)),
			row("Reasoning", d.HedgingStrategy.Reasoning),
		),
		section("Trade Execution", trade...),
		section("Governance",
			row("Approval", approval),
			row("Reason", d.Governance.ApprovalReason),
			row("Trade Size", fmt.Sprintf("%.2f%% of portfolio", d.Governance.TradeSizePct)),
		),
		section("Portfolio Summary",
			row("Initial Cash", d.PortfolioSummary.InitialCash),
			row("Final Cash", d.PortfolioSummary.FinalCash),
			row("Positions", fmt.Sprintf("%d", d.PortfolioSummary.TotalHoldings)),
			row("Portfolio Value", d.PortfolioSummary.PortfolioValue),
		),
	)
}

// StageName maps a graph node to its display name.
func StageName(node string) string {
	switch node {
	case consts.IngestionStage:
		return consts.Agent_Ingestion
	case consts.RiskStage:
		return consts.Agent_Risk
	case consts.StrategyStage:
		return consts.Agent_Strategy
	case consts.ExecutionStage:
		return consts.Agent_Execution
	case consts.SkipExecution:
		return "Execution Gate"
	case consts.Reporter:
		return "Report"
	}
	return node
}
