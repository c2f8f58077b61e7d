package agents

import (
	"context"
	"fmt"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/llm"
	"github.com/dyike/QuantHedge/models"
	"go.uber.org/zap"
)

type Strategy struct {
	gen    llm.Generator
	logger *zap.Logger
}

func NewStrategy(gen llm.Generator, logger *zap.Logger) *Strategy {
	return &Strategy{gen: gen, logger: orNop(logger).Named(consts.StrategyStage)}
}

func (a *Strategy) Run(ctx context.Context, rr models.RiskReport, md models.MarketData) models.HedgingInstruction {
	a.logger.Info("formulating hedging strategy")
	user := fmt.Sprintf(strategyUserPrompt, toJSON(md), toJSON(rr))
	hi := runStage(ctx, a.gen, a.logger, consts.StrategyStage,
		strategySystemPrompt, user,
		models.DecodeHedgingInstruction, models.FallbackHedgingInstruction)
	a.logger.Info("strategy decided",
		zap.String("action", hi.Action), zap.Int64("quantity", hi.Quantity), zap.String("ticker", hi.Ticker))
	return hi
}
