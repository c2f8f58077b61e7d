package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/dyike/QuantHedge/config"
	"github.com/dyike/QuantHedge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoModel struct {
	seen []*schema.Message
}

func (m *echoModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.seen = in
	return schema.AssistantMessage("reply to: "+in[len(in)-1].Content, nil), nil
}

func (m *echoModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestChainGenerator(t *testing.T) {
	ctx := context.Background()
	cm := &echoModel{}
	g, err := NewChainGenerator(ctx, "test_chain", cm, 0)
	require.NoError(t, err)

	out, err := g.Generate(ctx, "be terse", `portfolio {"cash": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `reply to: portfolio {"cash": 1}`, out)
	require.Len(t, cm.seen, 2)
	assert.Equal(t, schema.System, cm.seen[0].Role)
	assert.Equal(t, "be terse", cm.seen[0].Content)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{Reason: "no key"}.Generate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiClient(t *testing.T) {
	var body geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"vix\":"},{"text":"20}"}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(GeminiOptions{BaseURL: srv.URL, APIKey: "k", Model: "gemini-test", RatePerMinute: 600})
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"vix":20}`, out)
	require.NotNil(t, body.SystemInstruction)
	assert.Equal(t, "sys", body.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "user", body.Contents[0].Parts[0].Text)
}

func TestGeminiClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"bad key"}}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(GeminiOptions{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), "", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func TestSimulatorProducesValidContracts(t *testing.T) {
	ctx := context.Background()
	prices := config.DefaultPriceTable()

	out, err := NewSimulator(RoleIngestion, prices, 1).Generate(ctx, "", "")
	require.NoError(t, err)
	md, err := models.DecodeMarketData([]byte(stripFence(out)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, md.VIX, 12.0)

	riskPrompt := `Market: {"vix": 30, "sentiment": "negative", "sp500_performance": -0.01} Portfolio: {"cash": 50000, "holdings": {"TSLA": 10, "MSFT": 5}}`
	out, err = NewSimulator(RoleRisk, prices, 1).Generate(ctx, "", riskPrompt)
	require.NoError(t, err)
	rr, err := models.DecodeRiskReport([]byte(stripFence(out)))
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA"}, rr.ExposedAssets)

	stratPrompt := `Risk: {"beta": 1.4, "var_95": 3000, "exposed_assets": ["TSLA"]} Market: {"vix": 30, "sentiment": "negative", "sp500_performance": -0.01}`
	out, err = NewSimulator(RoleStrategy, prices, 1).Generate(ctx, "", stratPrompt)
	require.NoError(t, err)
	hi, err := models.DecodeHedgingInstruction([]byte(stripFence(out)))
	require.NoError(t, err)
	assert.Equal(t, "SELL", hi.Action)
	assert.Equal(t, "TSLA", hi.Ticker)

	calm := `Risk: {"beta": 1.1, "var_95": 0, "exposed_assets": []} Market: {"vix": 11, "sentiment": "positive", "sp500_performance": 0.01}`
	out, err = NewSimulator(RoleStrategy, prices, 1).Generate(ctx, "", calm)
	require.NoError(t, err)
	hi, err = models.DecodeHedgingInstruction([]byte(stripFence(out)))
	require.NoError(t, err)
	assert.Equal(t, "HOLD", hi.Action)
}

func TestEmbeddedObjects(t *testing.T) {
	objs := embeddedObjects(`a {'x': 1} b {"a": {"b": 2}} c {"d": 3}`)
	require.Len(t, objs, 2)
	assert.Contains(t, objs[0], "a")
	assert.Contains(t, objs[1], "d")
}

func TestNewSet(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLMProvider = config.ProviderSim
	set, err := NewSet(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Simulator{}, set.Ingestion)

	cfg.LLMProvider = config.ProviderGemini
	cfg.GeminiAPIKey = ""
	set, err = NewSet(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, Unavailable{}, set.Risk)

	cfg.GeminiAPIKey = "k"
	set, err = NewSet(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, set.Strategy)
}
