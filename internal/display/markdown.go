package display

import (
	"fmt"
	"strings"

	"github.com/dyike/QuantHedge/models"
	"github.com/dyike/QuantHedge/pkg/utils"
)

// Markdown renders the emoji summary of a cycle.
func Markdown(r *models.CycleReport) string {
	var b strings.Builder
	if r.Data == nil {
		fmt.Fprintf(&b, "❌ **%s**\n\n- Error: %s\n- Timestamp: %s\n", r.Message, r.Error, r.Timestamp)
		return b.String()
	}
	d := r.Data

	fmt.Fprintf(&b, "🤖 **%s**\n\n", models.MessageCycleComplete)

	b.WriteString("📊 **Market Conditions:**\n")
	fmt.Fprintf(&b, "- VIX Level: %v\n", d.MarketConditions.VIXLevel)
	fmt.Fprintf(&b, "- Market Sentiment: %s\n", d.MarketConditions.Sentiment)
	fmt.Fprintf(&b, "- S&P 500 Performance: %s\n\n", d.MarketConditions.SP500Performance)

	b.WriteString("🔍 **Portfolio Risk Assessment:**\n")
	fmt.Fprintf(&b, "- Portfolio Beta: %v\n", d.RiskAssessment.PortfolioBeta)
	fmt.Fprintf(&b, "- Value at Risk (95%%): %s\n", d.RiskAssessment.ValueAtRisk95)
	fmt.Fprintf(&b, "- Exposed Assets: %s\n\n", strings.Join(d.RiskAssessment.ExposedAssets, ", "))

	b.WriteString("🎯 **Hedging Strategy:**\n")
	fmt.Fprintf(&b, "- Action: %s\n", d.HedgingStrategy.Action)
	fmt.Fprintf(&b, "- Ticker: %s\n", d.HedgingStrategy.Ticker)
	fmt.Fprintf(&b, "- Quantity: %d\n", d.HedgingStrategy.Quantity)
	fmt.Fprintf(&b, "- Reasoning: %s\n\n", d.HedgingStrategy.Reasoning)

	b.WriteString("💼 **Trade Execution:**\n")
	fmt.Fprintf(&b, "- Status: %s\n", d.TradeExecution.Status)
	if d.TradeExecution.Details != "" {
		fmt.Fprintf(&b, "- Details: %s\n", d.TradeExecution.Details)
	}
	b.WriteString("\n")

	b.WriteString("🛡️ **Governance:**\n")
	fmt.Fprintf(&b, "- Requires Approval: %t\n", d.Governance.RequiresApproval)
	fmt.Fprintf(&b, "- Reason: %s\n\n", d.Governance.ApprovalReason)

	b.WriteString("💰 **Portfolio Summary:**\n")
	fmt.Fprintf(&b, "- Initial Cash: %s\n", d.PortfolioSummary.InitialCash)
	fmt.Fprintf(&b, "- Final Cash: %s\n", d.PortfolioSummary.FinalCash)
	fmt.Fprintf(&b, "- Total Holdings: %d positions\n", d.PortfolioSummary.TotalHoldings)
	fmt.Fprintf(&b, "- Portfolio Value: %s\n\n", d.PortfolioSummary.PortfolioValue)

	b.WriteString("✅ **Hedging cycle completed successfully!**\n")
	return b.String()
}

// SaveMarkdown writes the report to dir as cycle_<id>.md and returns the file name.
func SaveMarkdown(dir string, r *models.CycleReport) (string, error) {
	name := fmt.Sprintf("cycle_%s.md", r.CycleID)
	if r.CycleID == "" {
		name = "cycle.md"
	}
	if err := utils.WriteMarkdown(dir, name, Markdown(r)); err != nil {
		return "", err
	}
	return name, nil
}
