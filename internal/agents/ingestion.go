package agents

import (
	"context"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/llm"
	"github.com/dyike/QuantHedge/models"
	"go.uber.org/zap"
)

type Ingestion struct {
	gen    llm.Generator
	logger *zap.Logger
}

func NewIngestion(gen llm.Generator, logger *zap.Logger) *Ingestion {
	return &Ingestion{gen: gen, logger: orNop(logger).Named(consts.IngestionStage)}
}

// Run asks the model for a market snapshot.
func (a *Ingestion) Run(ctx context.Context) models.MarketData {
	a.logger.Info("requesting market data")
	md := runStage(ctx, a.gen, a.logger, consts.IngestionStage,
		ingestionSystemPrompt, ingestionUserPrompt,
		models.DecodeMarketData, models.FallbackMarketData)
	a.logger.Info("market data ingested", zap.Float64("vix", md.VIX), zap.String("sentiment", md.Sentiment))
	return md
}
