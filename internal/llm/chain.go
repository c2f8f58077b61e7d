package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

type promptInput struct {
	System string
	User   string
}

// ChainGenerator runs template -> chat model -> content extraction as an eino chain.
type ChainGenerator struct {
	runnable compose.Runnable[promptInput, string]
	timeout  time.Duration
}

func NewChainGenerator(ctx context.Context, name string, cm model.BaseChatModel, timeout time.Duration) (*ChainGenerator, error) {
	if cm == nil {
		return nil, errors.New("chat model is nil")
	}
	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{user}"),
	)

	chain := compose.NewChain[promptInput, string]()
	chain.
		AppendLambda(compose.InvokableLambda(func(_ context.Context, in promptInput) (map[string]any, error) {
			return map[string]any{"system": in.System, "user": in.User}, nil
		})).
		AppendChatTemplate(tpl).
		AppendChatModel(cm).
		AppendLambda(compose.InvokableLambda(func(_ context.Context, msg *schema.Message) (string, error) {
			if msg == nil {
				return "", errors.New("empty model response")
			}
			return msg.Content, nil
		}))

	r, err := chain.Compile(ctx, compose.WithGraphName(name))
	if err != nil {
		return nil, err
	}
	return &ChainGenerator{runnable: r, timeout: timeout}, nil
}

func (g *ChainGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.runnable.Invoke(ctx, promptInput{System: systemPrompt, User: userPrompt})
}
