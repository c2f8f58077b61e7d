// Package governance checks proposed trades against human-in-the-loop risk
// thresholds. It is advisory unless enforcement is switched on.
package governance

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyike/QuantHedge/config"
	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Pricer is the read side of the ledger.
type Pricer interface {
	Price(ticker string) (decimal.Decimal, error)
	TotalValue() decimal.Decimal
}

// Approver decides on trades that breach a threshold.
type Approver interface {
	Approve(ctx context.Context, hi models.HedgingInstruction, a models.GovernanceAssessment) (bool, error)
}

type ApproverFunc func(ctx context.Context, hi models.HedgingInstruction, a models.GovernanceAssessment) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, hi models.HedgingInstruction, a models.GovernanceAssessment) (bool, error) {
	return f(ctx, hi, a)
}

type Gate struct {
	cfg      config.GovernanceConfig
	approver Approver
	logger   *zap.Logger
}

func New(cfg config.GovernanceConfig, approver Approver, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{cfg: cfg, approver: approver, logger: logger.Named("governance")}
}

func (g *Gate) Thresholds() models.RiskThresholds {
	return models.RiskThresholds{
		MaxTradeSizePct:  g.cfg.MaxTradeSizePct,
		MaxVaRThreshold:  g.cfg.MaxVaRThreshold,
		MaxBetaThreshold: g.cfg.MaxBetaThreshold,
	}
}

// Enforced reports whether breaches block execution.
func (g *Gate) Enforced() bool {
	return g.cfg.Enforce
}

// TradeSizePct is the instruction's notional as a percentage of portfolio
// value. Symbols without a price count as zero notional.
func TradeSizePct(hi models.HedgingInstruction, p Pricer) float64 {
	total := p.TotalValue()
	if !total.IsPositive() {
		return 0
	}
	price, err := p.Price(hi.Ticker)
	if err != nil {
		return 0
	}
	qty := hi.Quantity
	if qty < 0 {
		qty = -qty
	}
	pct, _ := price.Mul(decimal.NewFromInt(qty)).Div(total).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

// Assess builds the verdict for an actionable instruction.
func (g *Gate) Assess(hi models.HedgingInstruction, rr models.RiskReport, p Pricer) models.GovernanceAssessment {
	a := models.GovernanceAssessment{
		TradeSizePct:   TradeSizePct(hi, p),
		RiskThresholds: g.Thresholds(),
	}

	var reasons []string
	if a.TradeSizePct > g.cfg.MaxTradeSizePct {
		reasons = append(reasons, fmt.Sprintf("Trade size exceeds %.0f%% AUM threshold (%.1f%% impact)", g.cfg.MaxTradeSizePct, a.TradeSizePct))
	}
	if rr.VaR95 > g.cfg.MaxVaRThreshold {
		reasons = append(reasons, fmt.Sprintf("VaR %s exceeds %s threshold", models.FormatMoney(rr.VaR95), models.FormatMoney(g.cfg.MaxVaRThreshold)))
	}
	if rr.Beta > g.cfg.MaxBetaThreshold {
		reasons = append(reasons, fmt.Sprintf("Portfolio beta %.2f exceeds %.2f threshold", rr.Beta, g.cfg.MaxBetaThreshold))
	}

	if len(reasons) == 0 {
		a.ApprovalReason = "Trade size within acceptable limits"
		return a
	}
	a.RequiresApproval = true
	a.ApprovalReason = strings.Join(reasons, "; ")
	return a
}

// NoTrade is the assessment attached when the gate skips execution.
func (g *Gate) NoTrade() models.GovernanceAssessment {
	return models.GovernanceAssessment{
		ApprovalReason: "No trade proposed",
		RiskThresholds: g.Thresholds(),
	}
}

// Authorize returns ok when execution may proceed. Otherwise the returned
// result replaces the trade.
func (g *Gate) Authorize(ctx context.Context, hi models.HedgingInstruction, a models.GovernanceAssessment) (models.TradeResult, bool) {
	if !g.cfg.Enforce || !a.RequiresApproval {
		if a.RequiresApproval {
			g.logger.Info("advisory: trade breaches thresholds", zap.String("reason", a.ApprovalReason))
		}
		return models.TradeResult{}, true
	}
	if g.approver == nil {
		g.logger.Warn("trade held for approval", zap.String("reason", a.ApprovalReason))
		return models.TradeResult{
			Status: consts.TradePendingApproval,
			Reason: a.ApprovalReason,
		}, false
	}

	approved, err := g.approver.Approve(ctx, hi, a)
	if err != nil {
		g.logger.Warn("approver failed, holding trade", zap.Error(err))
		return models.TradeResult{
			Status:  consts.TradePendingApproval,
			Reason:  a.ApprovalReason,
			Details: err.Error(),
		}, false
	}
	if !approved {
		g.logger.Info("trade rejected by approver", zap.String("ticker", hi.Ticker))
		return models.TradeResult{
			Status: consts.TradeRejected,
			Reason: a.ApprovalReason,
		}, false
	}
	return models.TradeResult{}, true
}
