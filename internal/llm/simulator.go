package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/dyike/QuantHedge/internal/quant"
	"github.com/dyike/QuantHedge/models"
)

// Simulator answers stage prompts offline with mock numbers from package quant.
// It reads the JSON objects embedded in the user prompt, the same inputs a
// hosted model would see.
type Simulator struct {
	role   Role
	prices map[string]float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(role Role, prices map[string]float64, seed int64) *Simulator {
	return &Simulator{role: role, prices: prices, rng: rand.New(rand.NewSource(seed))}
}

func (s *Simulator) Generate(ctx context.Context, _, userPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var v any
	switch s.role {
	case RoleIngestion:
		v = s.market()
	case RoleRisk:
		v = s.risk(embeddedObjects(userPrompt))
	case RoleStrategy:
		v = s.strategy(embeddedObjects(userPrompt))
	default:
		return "", fmt.Errorf("simulator: unknown role %q", s.role)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	// hosted models usually fence their JSON
	return "```json\n" + string(b) + "\n```", nil
}

func (s *Simulator) market() models.MarketData {
	vix := math.Round((12+s.rng.Float64()*25)*100) / 100
	yield := 3.8 + s.rng.Float64()
	return models.MarketData{
		VIX:              vix,
		Sentiment:        quant.ContractSentiment(quant.MacroSentiment(vix, yield)),
		SP500Performance: math.Round((-0.03+s.rng.Float64()*0.05)*10000) / 10000,
	}
}

func (s *Simulator) risk(objs []map[string]any) models.RiskReport {
	vix := 20.0
	value := 0.0
	var tickers []string
	for _, o := range objs {
		if v, ok := o["vix"].(float64); ok {
			vix = v
		}
		if h, ok := o["holdings"].(map[string]any); ok {
			if c, ok := o["cash"].(float64); ok {
				value += c
			}
			for t, q := range h {
				tickers = append(tickers, t)
				if n, ok := q.(float64); ok {
					value += n * s.prices[strings.ToUpper(t)]
				}
			}
		}
	}
	sort.Strings(tickers)
	return models.RiskReport{
		Beta:          quant.PortfolioBeta(s.rng),
		VaR95:         quant.PortfolioVaR(value, 0.95, s.rng),
		ExposedAssets: quant.ExposedAssets(vix, tickers),
	}
}

func (s *Simulator) strategy(objs []map[string]any) models.HedgingInstruction {
	var (
		vix       float64
		sentiment string
		beta      float64
		exposed   []string
	)
	for _, o := range objs {
		if v, ok := o["vix"].(float64); ok {
			vix = v
			sentiment, _ = o["sentiment"].(string)
		}
		if b, ok := o["beta"].(float64); ok {
			beta = b
			if list, ok := o["exposed_assets"].([]any); ok {
				for _, a := range list {
					if t, ok := a.(string); ok {
						exposed = append(exposed, t)
					}
				}
			}
		}
	}

	switch {
	case len(exposed) > 0 && s.prices[exposed[0]] > 0:
		return models.HedgingInstruction{
			Action:    "SELL",
			Ticker:    exposed[0],
			Quantity:  10,
			Reasoning: fmt.Sprintf("Trim %s, the most exposed holding at VIX %.1f.", exposed[0], vix),
		}
	case vix > 25 || sentiment == models.SentimentNegative || beta > 1.3:
		return models.HedgingInstruction{
			Action:    "SELL",
			Ticker:    "SPY",
			Quantity:  100,
			Reasoning: fmt.Sprintf("Beta %.2f in a %s market; short the index to cut exposure.", beta, sentiment),
		}
	default:
		return models.HedgingInstruction{
			Action:    "HOLD",
			Ticker:    "NONE",
			Quantity:  0,
			Reasoning: "Risk is within tolerance.",
		}
	}
}

// embeddedObjects pulls every top-level JSON object out of free text.
func embeddedObjects(text string) []map[string]any {
	var out []map[string]any
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(text[i:])))
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			continue
		}
		out = append(out, obj)
		i += int(dec.InputOffset()) - 1
	}
	return out
}
