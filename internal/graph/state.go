package graph

import (
	"strings"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/models"
)

// CycleState travels through the graph, each node filling in its part.
type CycleState struct {
	Before      models.PortfolioSnapshot
	Market      models.MarketData
	Risk        models.RiskReport
	Instruction models.HedgingInstruction
	Governance  models.GovernanceAssessment
	Trade       models.TradeResult
}

var noTradeActions = map[string]bool{
	consts.ActionNone:           true,
	consts.ActionNoActionNeeded: true,
	consts.ActionHold:           true,
}

// ShouldExecute is the execution gate. Matching is case-insensitive.
func ShouldExecute(action string) bool {
	return !noTradeActions[strings.ToUpper(strings.TrimSpace(action))]
}
