package governance

import (
	"context"
	"errors"
	"testing"

	"github.com/dyike/QuantHedge/config"
	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/ledger"
	"github.com/dyike/QuantHedge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultGovernance(enforce bool) config.GovernanceConfig {
	return config.GovernanceConfig{Enforce: enforce, MaxTradeSizePct: 5, MaxVaRThreshold: 10000, MaxBetaThreshold: 1.5}
}

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.NewFromFloats(100000, config.DefaultPriceTable())
	require.NoError(t, err)
	return l
}

var calm = models.RiskReport{Beta: 1.2, VaR95: 4000, ExposedAssets: []string{}}

func TestTradeSizePct(t *testing.T) {
	l := newLedger(t)
	assert.Equal(t, 8.75, TradeSizePct(models.HedgingInstruction{Ticker: "AAPL", Quantity: 50}, l))
	assert.Equal(t, 0.0, TradeSizePct(models.FallbackHedgingInstruction(), l))
}

func TestAssess(t *testing.T) {
	g := New(defaultGovernance(false), nil, nil)
	l := newLedger(t)

	a := g.Assess(models.HedgingInstruction{Action: "BUY", Ticker: "AAPL", Quantity: 10}, calm, l)
	assert.False(t, a.RequiresApproval)
	assert.Equal(t, 1.75, a.TradeSizePct)
	assert.Equal(t, 10000.0, a.RiskThresholds.MaxVaRThreshold)

	a = g.Assess(models.HedgingInstruction{Action: "BUY", Ticker: "AAPL", Quantity: 50}, calm, l)
	assert.True(t, a.RequiresApproval)
	assert.Contains(t, a.ApprovalReason, "Trade size exceeds 5% AUM threshold (8.8% impact)")

	a = g.Assess(models.FallbackHedgingInstruction(), models.FallbackRiskReport(), l)
	assert.True(t, a.RequiresApproval)
	assert.Contains(t, a.ApprovalReason, "VaR $50,000.00 exceeds $10,000.00 threshold")
	assert.NotContains(t, a.ApprovalReason, "beta")
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	hi := models.HedgingInstruction{Action: "BUY", Ticker: "AAPL", Quantity: 50}
	breach := models.GovernanceAssessment{RequiresApproval: true, ApprovalReason: "too big"}

	_, ok := New(defaultGovernance(false), nil, nil).Authorize(ctx, hi, breach)
	assert.True(t, ok, "advisory mode never blocks")

	res, ok := New(defaultGovernance(true), nil, nil).Authorize(ctx, hi, breach)
	assert.False(t, ok)
	assert.Equal(t, consts.TradePendingApproval, res.Status)

	no := ApproverFunc(func(context.Context, models.HedgingInstruction, models.GovernanceAssessment) (bool, error) { return false, nil })
	res, ok = New(defaultGovernance(true), no, nil).Authorize(ctx, hi, breach)
	assert.False(t, ok)
	assert.Equal(t, consts.TradeRejected, res.Status)

	broken := ApproverFunc(func(context.Context, models.HedgingInstruction, models.GovernanceAssessment) (bool, error) {
		return false, errors.New("tty closed")
	})
	res, ok = New(defaultGovernance(true), broken, nil).Authorize(ctx, hi, breach)
	assert.False(t, ok)
	assert.Equal(t, consts.TradePendingApproval, res.Status)

	yes := ApproverFunc(func(context.Context, models.HedgingInstruction, models.GovernanceAssessment) (bool, error) { return true, nil })
	_, ok = New(defaultGovernance(true), yes, nil).Authorize(ctx, hi, breach)
	assert.True(t, ok)

	_, ok = New(defaultGovernance(true), nil, nil).Authorize(ctx, hi, models.GovernanceAssessment{})
	assert.True(t, ok)
}
