// Package agents implements the four pipeline stages. The model-backed
// stages never fail: any generator, parse or validation error is logged
// and replaced by the stage's fallback value.
package agents

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dyike/QuantHedge/internal/llm"
	"go.uber.org/zap"
)

// StripFences removes markdown code fences around a JSON reply.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func runStage[T any](ctx context.Context, gen llm.Generator, logger *zap.Logger, stage, system, user string, decode func([]byte) (T, error), fallback func() T) T {
	if gen == nil {
		logger.Warn("no generator configured, using fallback", zap.String("stage", stage))
		return fallback()
	}
	raw, err := gen.Generate(ctx, system, user)
	if err != nil {
		logger.Warn("generation failed, using fallback", zap.String("stage", stage), zap.Error(err))
		return fallback()
	}
	out, err := decode([]byte(StripFences(raw)))
	if err != nil {
		logger.Warn("could not parse model response, using fallback",
			zap.String("stage", stage), zap.Error(err), zap.String("raw", truncate(raw, 512)))
		return fallback()
	}
	return out
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
