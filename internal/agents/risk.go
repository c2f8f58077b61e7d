package agents

import (
	"context"
	"fmt"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/llm"
	"github.com/dyike/QuantHedge/models"
	"go.uber.org/zap"
)

type Risk struct {
	gen    llm.Generator
	logger *zap.Logger
}

func NewRisk(gen llm.Generator, logger *zap.Logger) *Risk {
	return &Risk{gen: gen, logger: orNop(logger).Named(consts.RiskStage)}
}

func (a *Risk) Run(ctx context.Context, md models.MarketData, portfolio models.PortfolioSnapshot) models.RiskReport {
	a.logger.Info("performing risk analysis")
	user := fmt.Sprintf(riskUserPrompt, toJSON(portfolio), toJSON(md))
	rr := runStage(ctx, a.gen, a.logger, consts.RiskStage,
		riskSystemPrompt, user,
		models.DecodeRiskReport, models.FallbackRiskReport)
	a.logger.Info("risk analysis complete", zap.Float64("beta", rr.Beta), zap.Float64("var_95", rr.VaR95))
	return rr
}
