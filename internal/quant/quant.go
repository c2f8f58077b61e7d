// Package quant holds the mock risk helpers behind the offline simulator.
// None of these are real models; they produce plausible numbers only.
package quant

import (
	"math"
	"math/rand"
	"strings"
)

const z95 = 2.33

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// PortfolioBeta returns a mock beta in [1.15, 1.45].
func PortfolioBeta(rng *rand.Rand) float64 {
	return round(1.15+rng.Float64()*0.3, 3)
}

// PortfolioVaR returns a mock one-day loss at the given confidence.
// Only 0.95 is modelled; other confidences use the same z.
func PortfolioVaR(value, confidence float64, rng *rand.Rand) float64 {
	_ = confidence
	sigma := 0.015 + rng.Float64()*0.005
	return round(value*sigma*z95, 0)
}

// ExposedAssets flags volatility-sensitive holdings. Order follows tickers,
// duplicates dropped.
func ExposedAssets(vix float64, tickers []string) []string {
	out := make([]string, 0)
	for _, t := range tickers {
		switch strings.ToUpper(t) {
		case "AAPL", "TSLA":
			if vix > 15 {
				out = append(out, strings.ToUpper(t))
			}
		case "QQQ":
			if vix > 18 {
				out = append(out, "QQQ (Index ETF)")
			}
		}
	}
	return Dedupe(out)
}

func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

const (
	SentimentExtremeFear = "Extreme Fear"
	SentimentBearish     = "Bearish"
	SentimentBullish     = "Bullish"
	SentimentNeutral     = "Neutral"
)

func MacroSentiment(vix, yield10y float64) string {
	switch {
	case vix > 18 && yield10y > 4.5:
		return SentimentExtremeFear
	case vix > 15.5:
		return SentimentBearish
	case vix < 12 && yield10y < 4.1:
		return SentimentBullish
	default:
		return SentimentNeutral
	}
}

// ContractSentiment maps a macro label to positive|negative|neutral.
func ContractSentiment(macro string) string {
	switch macro {
	case SentimentExtremeFear, SentimentBearish:
		return "negative"
	case SentimentBullish:
		return "positive"
	default:
		return "neutral"
	}
}
