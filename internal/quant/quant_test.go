package quant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortfolioBetaRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		b := PortfolioBeta(rng)
		assert.GreaterOrEqual(t, b, 1.15)
		assert.LessOrEqual(t, b, 1.45)
	}
}

func TestPortfolioVaRRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		v := PortfolioVaR(100000, 0.95, rng)
		assert.GreaterOrEqual(t, v, 3495.0)
		assert.LessOrEqual(t, v, 4660.0)
	}
}

func TestExposedAssets(t *testing.T) {
	held := []string{"AAPL", "MSFT", "TSLA", "QQQ", "aapl"}
	assert.Equal(t, []string{"AAPL", "TSLA", "QQQ (Index ETF)"}, ExposedAssets(20, held))
	assert.Equal(t, []string{"AAPL", "TSLA"}, ExposedAssets(16, held))
	assert.Empty(t, ExposedAssets(12, held))
}

func TestMacroSentiment(t *testing.T) {
	tests := []struct {
		vix, yield float64
		want       string
	}{
		{20, 4.6, SentimentExtremeFear},
		{20, 4.0, SentimentBearish},
		{16, 5.0, SentimentBearish},
		{11, 4.0, SentimentBullish},
		{11, 4.2, SentimentNeutral},
		{14, 4.0, SentimentNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MacroSentiment(tt.vix, tt.yield), "vix=%v yield=%v", tt.vix, tt.yield)
	}
	assert.Equal(t, "negative", ContractSentiment(SentimentExtremeFear))
	assert.Equal(t, "positive", ContractSentiment(SentimentBullish))
	assert.Equal(t, "neutral", ContractSentiment(SentimentNeutral))
}
