package graph

import (
	"context"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// StageEvent is pushed on LoggerCallback.Out as stages start and finish.
type StageEvent struct {
	Stage    string
	Done     bool
	Err      error
	Duration time.Duration
}

type stageStartKey struct{}

// LoggerCallback logs every pipeline node run.
type LoggerCallback struct {
	Logger *zap.Logger
	// Out is optional; sends never block.
	Out chan<- StageEvent
}

func (cb *LoggerCallback) push(ev StageEvent) {
	if cb.Out == nil {
		return
	}
	select {
	case cb.Out <- ev:
	default:
	}
}

func isStage(info *callbacks.RunInfo) bool {
	return info != nil && info.Component == compose.ComponentOfLambda
}

func (cb *LoggerCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
	if !isStage(info) {
		return ctx
	}
	cb.Logger.Debug("stage start", zap.String("stage", info.Name))
	cb.push(StageEvent{Stage: info.Name})
	return context.WithValue(ctx, stageStartKey{}, time.Now())
}

func (cb *LoggerCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackOutput) context.Context {
	if !isStage(info) {
		return ctx
	}
	var took time.Duration
	if start, ok := ctx.Value(stageStartKey{}).(time.Time); ok {
		took = time.Since(start)
	}
	cb.Logger.Debug("stage end", zap.String("stage", info.Name), zap.Duration("took", took))
	cb.push(StageEvent{Stage: info.Name, Done: true, Duration: took})
	return ctx
}

func (cb *LoggerCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	name := ""
	if info != nil {
		name = info.Name
	}
	cb.Logger.Error("graph node failed", zap.String("node", name), zap.Error(err))
	cb.push(StageEvent{Stage: name, Done: true, Err: err})
	return ctx
}

func (cb *LoggerCallback) OnStartWithStreamInput(ctx context.Context, _ *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return ctx
}

func (cb *LoggerCallback) OnEndWithStreamOutput(ctx context.Context, _ *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	return ctx
}
