// Package service owns the process-wide ledger and runs hedging cycles one
// at a time.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dyike/QuantHedge/config"
	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/governance"
	"github.com/dyike/QuantHedge/internal/graph"
	"github.com/dyike/QuantHedge/internal/ledger"
	"github.com/dyike/QuantHedge/internal/llm"
	"github.com/dyike/QuantHedge/internal/storage"
	"github.com/dyike/QuantHedge/models"
	"github.com/dyike/QuantHedge/pkg/id"
	"go.uber.org/zap"
)

const DefaultPrompt = "analyze my portfolio"

// Runner executes one cycle of the graph.
type Runner interface {
	RunWithEvents(ctx context.Context, out chan<- graph.StageEvent) (*models.CycleData, error)
}

type Options struct {
	Logger   *zap.Logger
	Approver governance.Approver
	// Generators overrides the configured provider.
	Generators *llm.Set
	Journal    storage.Journal
}

type Service struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	runner  Runner
	journal storage.Journal
	logger  *zap.Logger
	now     func() time.Time
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l, err := ledger.NewFromFloats(cfg.InitialCash, cfg.PriceTable)
	if err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}

	var gens llm.Set
	if opts.Generators != nil {
		gens = *opts.Generators
	} else if gens, err = llm.NewSet(ctx, cfg, logger); err != nil {
		return nil, fmt.Errorf("create generators: %w", err)
	}

	orch, err := graph.NewOrchestrator(ctx, graph.Deps{
		Ledger:     l,
		Generators: gens,
		Gate:       governance.New(cfg.Governance, opts.Approver, logger),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("compile hedging graph: %w", err)
	}

	journal := opts.Journal
	if journal == nil {
		if journal, err = storage.Open(ctx, cfg.JournalPath); err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}

	return NewWithRunner(l, orch, journal, logger), nil
}

// NewWithRunner assembles a service from parts.
func NewWithRunner(l *ledger.Ledger, runner Runner, journal storage.Journal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if journal == nil {
		journal = storage.NopJournal{}
	}
	return &Service{ledger: l, runner: runner, journal: journal, logger: logger, now: time.Now}
}

func (s *Service) Close() error {
	return s.journal.Close()
}

// RunCycle runs one hedging cycle and always returns a report. Graph
// failures and panics become an error envelope.
func (s *Service) RunCycle(ctx context.Context, prompt string, events chan<- graph.StageEvent) (report *models.CycleReport) {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	cycleID := id.NewCycleID()
	logger := s.logger.With(zap.String("cycle_id", cycleID))

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("hedging cycle panicked", zap.Any("panic", r))
			report = s.errorReport(cycleID, prompt, fmt.Errorf("panic: %v", r))
		}
		s.record(ctx, report)
	}()

	logger.Info("starting hedging cycle", zap.String("prompt", prompt))
	data, err := s.runner.RunWithEvents(ctx, events)
	if err != nil {
		logger.Error("hedging cycle failed", zap.Error(err))
		return s.errorReport(cycleID, prompt, err)
	}
	if data == nil {
		return s.errorReport(cycleID, prompt, errors.New("graph returned no data"))
	}

	logger.Info("hedging cycle complete",
		zap.String("action", data.HedgingStrategy.Action),
		zap.String("trade_status", data.TradeExecution.Status))
	return &models.CycleReport{
		Status:    consts.CycleSuccess,
		Message:   models.MessageCycleComplete,
		CycleID:   cycleID,
		Prompt:    prompt,
		Data:      data,
		Timestamp: s.timestamp(),
	}
}

func (s *Service) errorReport(cycleID, prompt string, err error) *models.CycleReport {
	return &models.CycleReport{
		Status:    consts.CycleError,
		Message:   models.MessageCycleError,
		CycleID:   cycleID,
		Prompt:    prompt,
		Error:     fmt.Sprintf("Error in hedging cycle: %v", err),
		Timestamp: s.timestamp(),
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// record writes the journal row. Failures are logged only.
func (s *Service) record(ctx context.Context, report *models.CycleReport) {
	if report == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("encode report for journal", zap.Error(err))
		return
	}
	rec := models.NewCycleRecord(report, raw, s.now())
	if err := s.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("journal write failed", zap.String("cycle_id", report.CycleID), zap.Error(err))
	}
}

// PortfolioView is the current ledger state.
type PortfolioView struct {
	Portfolio  models.PortfolioSnapshot `json:"portfolio"`
	TotalValue float64                  `json:"total_value"`
	Timestamp  string                   `json:"timestamp"`
}

func (s *Service) Portfolio() PortfolioView {
	total, _ := s.ledger.TotalValue().Float64()
	return PortfolioView{
		Portfolio:  s.ledger.Snapshot(),
		TotalValue: total,
		Timestamp:  s.timestamp(),
	}
}

func (s *Service) History(ctx context.Context, limit int) ([]models.CycleRecord, error) {
	return s.journal.Recent(ctx, limit)
}
