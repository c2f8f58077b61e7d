package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/graph"
	"github.com/dyike/QuantHedge/internal/service"
	"github.com/dyike/QuantHedge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	prompts []string
	report  *models.CycleReport
	history []models.CycleRecord
	histErr error
	limit   int
}

func (f *fakeService) RunCycle(_ context.Context, prompt string, _ chan<- graph.StageEvent) *models.CycleReport {
	f.prompts = append(f.prompts, prompt)
	return f.report
}

func (f *fakeService) Portfolio() service.PortfolioView {
	return service.PortfolioView{TotalValue: 100000}
}

func (f *fakeService) History(_ context.Context, limit int) ([]models.CycleRecord, error) {
	f.limit = limit
	return f.history, f.histErr
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func okReport() *models.CycleReport {
	return &models.CycleReport{Status: consts.CycleSuccess, Message: models.MessageCycleComplete, Data: &models.CycleData{}}
}

func TestAnalyze(t *testing.T) {
	svc := &fakeService{report: okReport()}
	h := NewServer(":0", svc, nil).Router()

	rec, body := do(t, h, http.MethodPost, "/api/analyze", `{"prompt": "hedge tech"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	_, _ = do(t, h, http.MethodPost, "/api/analyze", ``)
	_, _ = do(t, h, http.MethodPost, "/api/analyze", `{}`)
	assert.Equal(t, []string{"hedge tech", service.DefaultPrompt, service.DefaultPrompt}, svc.prompts)
}

func TestAnalyzeMalformedBody(t *testing.T) {
	svc := &fakeService{report: okReport()}
	rec, body := do(t, NewServer(":0", svc, nil).Router(), http.MethodPost, "/api/analyze", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.Empty(t, svc.prompts)
}

func TestAnalyzeErrorEnvelope(t *testing.T) {
	svc := &fakeService{report: &models.CycleReport{Status: consts.CycleError, Message: models.MessageCycleError, Error: "Error in hedging cycle: x"}}
	rec, body := do(t, NewServer(":0", svc, nil).Router(), http.MethodPost, "/api/analyze", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error in hedging cycle: x", body["error"])
}

func TestHealthAndIndex(t *testing.T) {
	h := NewServer(":0", &fakeService{}, nil).Router()

	rec, body := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "QuantHedge API is running", body["message"])
	assert.NotEmpty(t, body["timestamp"])

	_, body = do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, "QuantHedge Autonomous Hedging API", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "/api/analyze", body["endpoints"].(map[string]any)["analyze"])
}

func TestHistory(t *testing.T) {
	svc := &fakeService{history: []models.CycleRecord{{ID: "01A", Status: "success"}}}
	h := NewServer(":0", svc, nil).Router()

	rec, body := do(t, h, http.MethodGet, "/api/history?limit=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, float64(1), body["count"])

	rec, _ = do(t, h, http.MethodGet, "/api/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.histErr = errors.New("db locked")
	rec, _ = do(t, h, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 20, svc.limit)
}

func TestPortfolio(t *testing.T) {
	_, body := do(t, NewServer(":0", &fakeService{}, nil).Router(), http.MethodGet, "/api/portfolio", "")
	assert.Equal(t, float64(100000), body["total_value"])
}
