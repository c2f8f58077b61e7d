package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"
	"github.com/dyike/QuantHedge/config"
	"go.uber.org/zap"
)

// EinoDebugger starts the eino visual debug server for the hedging graph.
type EinoDebugger struct {
	config *config.Config
	logger *zap.Logger
}

func NewEinoDebugger(cfg *config.Config, logger *zap.Logger) *EinoDebugger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EinoDebugger{config: cfg, logger: logger.Named("eino_debug")}
}

// Initialize is a no-op unless eino_debug_enabled is set. It must run
// before the graph is compiled so the graph gets registered.
func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.IsEnabled() {
		return nil
	}
	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize Eino debug plugin: %w", err)
	}
	d.logger.Info("eino debug server started", zap.String("url", d.URL()))
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) URL() string {
	if !d.IsEnabled() {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}
