package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/dyike/QuantHedge/config"
	"go.uber.org/zap"
)

// NewSet builds the per-stage generators for the configured provider.
// Ingestion runs on the quick model, risk and strategy on the deep one.
// A provider without credentials yields Unavailable generators, which
// leaves every stage on its fallback.
func NewSet(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Set, error) {
	timeout := time.Duration(cfg.LLMTimeoutSecs) * time.Second

	switch cfg.LLMProvider {
	case config.ProviderSim:
		return Set{
			Ingestion: NewSimulator(RoleIngestion, cfg.PriceTable, time.Now().UnixNano()),
			Risk:      NewSimulator(RoleRisk, cfg.PriceTable, time.Now().UnixNano()+1),
			Strategy:  NewSimulator(RoleStrategy, cfg.PriceTable, time.Now().UnixNano()+2),
		}, nil
	}

	if cfg.APIKey() == "" {
		logger.Warn("no api key for provider, stages will use fallback data",
			zap.String("provider", cfg.LLMProvider))
		u := Unavailable{Reason: fmt.Sprintf("%s api key not set", cfg.LLMProvider)}
		return Set{Ingestion: u, Risk: u, Strategy: u}, nil
	}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		limiter := NewGeminiLimiter(cfg.LLMRatePerMinute)
		quick, err := NewGeminiClient(GeminiOptions{
			BaseURL: cfg.BackendURL, APIKey: cfg.GeminiAPIKey, Model: cfg.QuickThinkLLM,
			MaxTokens: cfg.MaxTokens, Timeout: timeout, Limiter: limiter,
		})
		if err != nil {
			return Set{}, err
		}
		deep, err := NewGeminiClient(GeminiOptions{
			BaseURL: cfg.BackendURL, APIKey: cfg.GeminiAPIKey, Model: cfg.DeepThinkLLM,
			MaxTokens: cfg.MaxTokens, Timeout: timeout, Limiter: limiter,
		})
		if err != nil {
			return Set{}, err
		}
		return Set{Ingestion: quick, Risk: deep, Strategy: deep}, nil

	case config.ProviderOpenAI, config.ProviderDeepSeek:
		quickModel, err := newChatModel(ctx, cfg, cfg.QuickThinkLLM)
		if err != nil {
			return Set{}, fmt.Errorf("create quick chat model: %w", err)
		}
		deepModel, err := newChatModel(ctx, cfg, cfg.DeepThinkLLM)
		if err != nil {
			return Set{}, fmt.Errorf("create deep chat model: %w", err)
		}
		quick, err := NewChainGenerator(ctx, "quick_think", quickModel, timeout)
		if err != nil {
			return Set{}, err
		}
		deep, err := NewChainGenerator(ctx, "deep_think", deepModel, timeout)
		if err != nil {
			return Set{}, err
		}
		return Set{Ingestion: quick, Risk: deep, Strategy: deep}, nil
	}
	return Set{}, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
}

func newChatModel(ctx context.Context, cfg *config.Config, name string) (model.BaseChatModel, error) {
	if cfg.LLMProvider == config.ProviderDeepSeek {
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     name,
			MaxTokens: cfg.MaxTokens,
		})
	}
	maxTokens := cfg.MaxTokens
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.BackendURL,
		APIKey:    cfg.OpenAIAPIKey,
		Model:     name,
		MaxTokens: &maxTokens,
	})
}
