package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dyike/QuantHedge/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// Fill describes a completed buy or sell.
type Fill struct {
	Ticker   string
	Quantity int64
	Price    decimal.Decimal
	Amount   decimal.Decimal
}

// Ledger is the in-memory mock brokerage account: cash plus share counts
// priced from a static table. Cash never goes negative and failed
// operations leave it untouched.
type Ledger struct {
	mu       sync.RWMutex
	cash     decimal.Decimal
	holdings map[string]int64
	prices   map[string]decimal.Decimal
}

func New(initialCash decimal.Decimal, prices map[string]decimal.Decimal) (*Ledger, error) {
	if initialCash.IsNegative() {
		return nil, fmt.Errorf("initial cash %s is negative", initialCash)
	}
	table := make(map[string]decimal.Decimal, len(prices))
	for ticker, p := range prices {
		if !p.IsPositive() {
			return nil, fmt.Errorf("price for %s must be positive, got %s", ticker, p)
		}
		table[strings.ToUpper(ticker)] = p
	}
	return &Ledger{
		cash:     initialCash,
		holdings: make(map[string]int64),
		prices:   table,
	}, nil
}

// NewFromFloats converts a config price table.
func NewFromFloats(initialCash float64, prices map[string]float64) (*Ledger, error) {
	table := make(map[string]decimal.Decimal, len(prices))
	for ticker, p := range prices {
		table[ticker] = decimal.NewFromFloat(p)
	}
	return New(decimal.NewFromFloat(initialCash), table)
}

func (l *Ledger) Snapshot() models.PortfolioSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	holdings := make(map[string]int64, len(l.holdings))
	for k, v := range l.holdings {
		holdings[k] = v
	}
	return models.PortfolioSnapshot{Cash: l.cash, Holdings: holdings}
}

func (l *Ledger) Price(ticker string) (decimal.Decimal, error) {
	p, ok := l.prices[strings.ToUpper(ticker)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, ticker)
	}
	return p, nil
}

// Tickers lists the symbols the price table knows.
func (l *Ledger) Tickers() []string {
	out := make([]string, 0, len(l.prices))
	for t := range l.prices {
		out = append(out, t)
	}
	return out
}

func (l *Ledger) Buy(ticker string, qty int64) (Fill, error) {
	if qty <= 0 {
		return Fill{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	price, err := l.Price(ticker)
	if err != nil {
		return Fill{}, err
	}
	symbol := strings.ToUpper(ticker)
	cost := price.Mul(decimal.NewFromInt(qty))

	l.mu.Lock()
	defer l.mu.Unlock()
	if cost.GreaterThan(l.cash) {
		return Fill{}, fmt.Errorf("%w: buying %d %s costs %s, cash is %s",
			ErrInsufficientFunds, qty, symbol, cost.StringFixed(2), l.cash.StringFixed(2))
	}
	l.cash = l.cash.Sub(cost)
	l.holdings[symbol] += qty
	return Fill{Ticker: symbol, Quantity: qty, Price: price, Amount: cost}, nil
}

func (l *Ledger) Sell(ticker string, qty int64) (Fill, error) {
	if qty <= 0 {
		return Fill{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	price, err := l.Price(ticker)
	if err != nil {
		return Fill{}, err
	}
	symbol := strings.ToUpper(ticker)

	l.mu.Lock()
	defer l.mu.Unlock()
	held := l.holdings[symbol]
	if qty > held {
		return Fill{}, fmt.Errorf("%w: selling %d %s, holding %d", ErrInsufficientShares, qty, symbol, held)
	}
	proceeds := price.Mul(decimal.NewFromInt(qty))
	l.cash = l.cash.Add(proceeds)
	if held == qty {
		delete(l.holdings, symbol)
	} else {
		l.holdings[symbol] = held - qty
	}
	return Fill{Ticker: symbol, Quantity: qty, Price: price, Amount: proceeds}, nil
}

// TotalValue is cash plus holdings marked at table prices.
func (l *Ledger) TotalValue() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := l.cash
	for symbol, qty := range l.holdings {
		total = total.Add(l.prices[symbol].Mul(decimal.NewFromInt(qty)))
	}
	return total
}
