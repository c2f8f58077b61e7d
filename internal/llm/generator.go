// Package llm provides the text generators the pipeline stages talk to.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns a system prompt plus a user prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

var ErrUnavailable = errors.New("model unavailable")

// Unavailable always fails, so every stage falls back. Used when a provider
// has no credentials.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Generate(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}

// Role names the stage a generator serves.
type Role string

const (
	RoleIngestion Role = "ingestion"
	RoleRisk      Role = "risk"
	RoleStrategy  Role = "strategy"
)

// Set holds one generator per model-backed stage.
type Set struct {
	Ingestion Generator
	Risk      Generator
	Strategy  Generator
}
