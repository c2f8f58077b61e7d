package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/ledger"
	"github.com/dyike/QuantHedge/models"
	"go.uber.org/zap"
)

// Broker is the part of the ledger execution needs.
type Broker interface {
	Buy(ticker string, qty int64) (ledger.Fill, error)
	Sell(ticker string, qty int64) (ledger.Fill, error)
}

type Execution struct {
	broker Broker
	logger *zap.Logger
}

func NewExecution(broker Broker, logger *zap.Logger) *Execution {
	return &Execution{broker: broker, logger: orNop(logger).Named(consts.ExecutionStage)}
}

// Run applies one instruction to the ledger. Problems come back as a
// TradeResult status, never as an error.
func (a *Execution) Run(_ context.Context, hi models.HedgingInstruction) (res models.TradeResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("trade execution panicked", zap.Any("panic", r))
			res = models.TradeResult{Status: consts.TradeFailed, Reason: "internal error", Details: fmt.Sprint(r)}
		}
	}()

	if hi.Action == "" || hi.Ticker == "" || hi.Quantity == 0 {
		a.logger.Warn("instruction is missing fields", zap.Any("instruction", hi))
		return models.TradeResult{
			Status: consts.TradeError,
			Code:   consts.CodeMissingField,
			Reason: "Missing action, ticker, or quantity.",
		}
	}

	var (
		fill ledger.Fill
		err  error
	)
	switch action := strings.ToUpper(hi.Action); action {
	case consts.ActionBuy:
		fill, err = a.broker.Buy(hi.Ticker, hi.Quantity)
	case consts.ActionSell:
		fill, err = a.broker.Sell(hi.Ticker, hi.Quantity)
	default:
		return models.TradeResult{
			Status: consts.TradeError,
			Code:   consts.CodeInvalidAction,
			Reason: fmt.Sprintf("Invalid action '%s'.", hi.Action),
		}
	}

	if err != nil {
		a.logger.Warn("trade failed", zap.String("ticker", hi.Ticker), zap.Error(err))
		return models.TradeResult{
			Status:  consts.TradeFailed,
			Code:    failureCode(err),
			Reason:  "Trade could not be executed.",
			Details: err.Error(),
		}
	}

	amount, _ := fill.Amount.Float64()
	a.logger.Info("trade executed",
		zap.String("action", hi.Action), zap.Int64("quantity", fill.Quantity), zap.String("ticker", fill.Ticker))
	return models.TradeResult{
		Status:  consts.TradeSuccess,
		Details: fmt.Sprintf("Executed %s %d of %s at %s.", strings.ToUpper(hi.Action), fill.Quantity, fill.Ticker, fill.Price.StringFixed(2)),
		Amount:  amount,
	}
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return consts.CodeInvalidQuantity
	case errors.Is(err, ledger.ErrUnknownSymbol):
		return consts.CodeUnknownSymbol
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return consts.CodeInsufficientFunds
	case errors.Is(err, ledger.ErrInsufficientShares):
		return consts.CodeInsufficientShares
	}
	return ""
}
