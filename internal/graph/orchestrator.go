// Package graph wires the pipeline stages into an eino graph:
// ingestion -> risk -> strategy -> (execution | skip_execution) -> report.
package graph

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/agents"
	"github.com/dyike/QuantHedge/internal/governance"
	"github.com/dyike/QuantHedge/internal/ledger"
	"github.com/dyike/QuantHedge/internal/llm"
	"github.com/dyike/QuantHedge/models"
	"go.uber.org/zap"
)

type Deps struct {
	Ledger     *ledger.Ledger
	Generators llm.Set
	Gate       *governance.Gate
	Logger     *zap.Logger
}

// Orchestrator runs one hedging cycle against the ledger per Run call.
type Orchestrator struct {
	ledger   *ledger.Ledger
	logger   *zap.Logger
	runnable compose.Runnable[*CycleState, *models.CycleData]
}

func NewOrchestrator(ctx context.Context, d Deps) (*Orchestrator, error) {
	if d.Ledger == nil {
		return nil, errors.New("orchestrator needs a ledger")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Gate == nil {
		return nil, errors.New("orchestrator needs a governance gate")
	}

	ingestion := agents.NewIngestion(d.Generators.Ingestion, d.Logger)
	risk := agents.NewRisk(d.Generators.Risk, d.Logger)
	strategy := agents.NewStrategy(d.Generators.Strategy, d.Logger)
	execution := agents.NewExecution(d.Ledger, d.Logger)
	l, gate := d.Ledger, d.Gate

	g := compose.NewGraph[*CycleState, *models.CycleData]()

	_ = g.AddLambdaNode(consts.IngestionStage, compose.InvokableLambda(func(ctx context.Context, s *CycleState) (*CycleState, error) {
		s.Market = ingestion.Run(ctx)
		return s, nil
	}), compose.WithNodeName(consts.IngestionStage))

	_ = g.AddLambdaNode(consts.RiskStage, compose.InvokableLambda(func(ctx context.Context, s *CycleState) (*CycleState, error) {
		s.Risk = risk.Run(ctx, s.Market, s.Before)
		return s, nil
	}), compose.WithNodeName(consts.RiskStage))

	_ = g.AddLambdaNode(consts.StrategyStage, compose.InvokableLambda(func(ctx context.Context, s *CycleState) (*CycleState, error) {
		s.Instruction = strategy.Run(ctx, s.Risk, s.Market)
		return s, nil
	}), compose.WithNodeName(consts.StrategyStage))

	_ = g.AddLambdaNode(consts.ExecutionStage, compose.InvokableLambda(func(ctx context.Context, s *CycleState) (*CycleState, error) {
		s.Governance = gate.Assess(s.Instruction, s.Risk, l)
		if blocked, ok := gate.Authorize(ctx, s.Instruction, s.Governance); !ok {
			s.Trade = blocked
			return s, nil
		}
		s.Trade = execution.Run(ctx, s.Instruction)
		return s, nil
	}), compose.WithNodeName(consts.ExecutionStage))

	_ = g.AddLambdaNode(consts.SkipExecution, compose.InvokableLambda(func(_ context.Context, s *CycleState) (*CycleState, error) {
		s.Governance = gate.NoTrade()
		s.Trade = models.NoTradeNeeded()
		return s, nil
	}), compose.WithNodeName(consts.SkipExecution))

	_ = g.AddLambdaNode(consts.Reporter, compose.InvokableLambda(func(_ context.Context, s *CycleState) (*models.CycleData, error) {
		return assemble(s, l), nil
	}), compose.WithNodeName(consts.Reporter))

	gateBranch := compose.NewGraphBranch(func(_ context.Context, s *CycleState) (string, error) {
		if ShouldExecute(s.Instruction.Action) {
			return consts.ExecutionStage, nil
		}
		return consts.SkipExecution, nil
	}, map[string]bool{
		consts.ExecutionStage: true,
		consts.SkipExecution:  true,
	})

	_ = g.AddEdge(compose.START, consts.IngestionStage)
	_ = g.AddEdge(consts.IngestionStage, consts.RiskStage)
	_ = g.AddEdge(consts.RiskStage, consts.StrategyStage)
	_ = g.AddBranch(consts.StrategyStage, gateBranch)
	_ = g.AddEdge(consts.ExecutionStage, consts.Reporter)
	_ = g.AddEdge(consts.SkipExecution, consts.Reporter)
	_ = g.AddEdge(consts.Reporter, compose.END)

	r, err := g.Compile(ctx,
		compose.WithGraphName("QuantHedge-HedgingCycle"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{ledger: l, logger: d.Logger, runnable: r}, nil
}

// Run executes one cycle. Stage problems are absorbed into the report; an
// error here means the graph itself failed.
func (o *Orchestrator) Run(ctx context.Context) (*models.CycleData, error) {
	return o.RunWithEvents(ctx, nil)
}

// RunWithEvents runs a cycle and streams stage events to out, which may be nil.
func (o *Orchestrator) RunWithEvents(ctx context.Context, out chan<- StageEvent) (*models.CycleData, error) {
	state := &CycleState{Before: o.ledger.Snapshot()}
	cb := &LoggerCallback{Logger: o.logger, Out: out}
	return o.runnable.Invoke(ctx, state, compose.WithCallbacks(cb))
}

func assemble(s *CycleState, l *ledger.Ledger) *models.CycleData {
	after := l.Snapshot()
	total, _ := l.TotalValue().Float64()
	return &models.CycleData{
		PortfolioBefore:  s.Before,
		MarketData:       s.Market,
		RiskReport:       s.Risk,
		HedgingStrategy:  s.Instruction,
		TradeExecution:   s.Trade,
		PortfolioAfter:   after,
		Governance:       s.Governance,
		MarketConditions: models.NewMarketConditions(s.Market),
		RiskAssessment:   models.NewRiskAssessment(s.Risk),
		PortfolioSummary: models.NewPortfolioSummary(s.Before, after, total),
	}
}
