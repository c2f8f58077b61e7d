package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dyike/QuantHedge/config"
	"github.com/dyike/QuantHedge/internal/debug"
	"github.com/dyike/QuantHedge/internal/display"
	"github.com/dyike/QuantHedge/internal/governance"
	"github.com/dyike/QuantHedge/internal/graph"
	"github.com/dyike/QuantHedge/internal/service"
	"github.com/dyike/QuantHedge/models"
)

type runOptions struct {
	prompt  string
	asJSON  bool
	confirm bool
	save    bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one hedging cycle and print the report",
		Example: `  quanthedge run
  quanthedge run --prompt "hedge my tech exposure" --json
  quanthedge run --confirm --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd.Context(), cmd.OutOrStdout(), root.cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.prompt, "prompt", service.DefaultPrompt, "Request text recorded with the cycle")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "Ask before executing trades that breach governance thresholds")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Write a markdown report to the results directory")
	return cmd
}

// buildService wires the service for CLI use. The eino debugger has to be
// up before the graph compiles.
func buildService(ctx context.Context, cfg *config.Config, logger *zap.Logger, approver governance.Approver) (*service.Service, error) {
	if err := debug.NewEinoDebugger(cfg, logger).Initialize(ctx); err != nil {
		logger.Warn("eino debugger unavailable", zap.Error(err))
	}
	return service.New(ctx, cfg, service.Options{Logger: logger, Approver: approver})
}

func runCycle(ctx context.Context, out io.Writer, cfg *config.Config, opts *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger(cfg.Debug, zapcore.WarnLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var approver governance.Approver
	if opts.confirm {
		cfg.Governance.Enforce = true
		approver = SurveyApprover{}
	}

	svc, err := buildService(ctx, cfg, logger, approver)
	if err != nil {
		return err
	}
	defer svc.Close()

	var report *models.CycleReport
	if opts.asJSON {
		report = svc.RunCycle(ctx, opts.prompt, nil)
	} else {
		fmt.Fprintln(out, "🚀 Starting hedging cycle")
		events := make(chan graph.StageEvent, 16)
		done := make(chan struct{})
		go func() {
			defer close(done)
			printProgress(out, events)
		}()
		report = svc.RunCycle(ctx, opts.prompt, events)
		close(events)
		<-done
	}

	if opts.save {
		name, err := display.SaveMarkdown(cfg.ResultsDir, report)
		if err != nil {
			logger.Warn("could not save report", zap.Error(err))
		} else if !opts.asJSON {
			fmt.Fprintf(out, "📝 Report saved to %s/%s\n", cfg.ResultsDir, name)
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, display.Render(report))
	}

	if report.Data == nil {
		return fmt.Errorf("%s", report.Error)
	}
	return nil
}

func printProgress(out io.Writer, events <-chan graph.StageEvent) {
	for ev := range events {
		name := display.StageName(ev.Stage)
		switch {
		case !ev.Done:
			fmt.Fprintf(out, "⏳ %s...\n", name)
		case ev.Err != nil:
			fmt.Fprintf(out, "❌ %s: %v\n", name, ev.Err)
		default:
			fmt.Fprintf(out, "✅ %s (%s)\n", name, ev.Duration.Round(time.Millisecond))
		}
	}
}
