package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AgusMolinaCode/stockly/internal/middleware"
	"github.com/AgusMolinaCode/stockly/internal/repository"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	holdings := repository.NewHoldingsRepository(repository.NewMemoryBackend())
	oracle := services.NewStaticOracle(map[string]float64{"AAPL": 150, "VTI": 210})
	portfolio := services.NewPortfolioService(holdings, services.NewPerformanceService(oracle), services.NewFallbackNarrator())

	h := middleware.NewHandlers(holdings, portfolio, oracle, services.NewStaticRecommender())
	return NewRouter(h, []string{"http://localhost:3000"})
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := setupRouter()
	w := do(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := setupRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestHoldingsCRUD(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodPost, "/api/holdings", `{"ticker":"aapl","shares":10,"purchase_price":100}`)
	require.Equal(t, http.StatusCreated, w.Code)
	holdings := decode(t, w)["holdings"].(map[string]any)
	require.Contains(t, holdings, "AAPL")
	added := holdings["AAPL"].(map[string]any)["date_added"]

	w = do(router, http.MethodPut, "/api/holdings/AAPL", `{"shares":12,"purchase_price":95}`)
	require.Equal(t, http.StatusOK, w.Code)
	aapl := decode(t, w)["holdings"].(map[string]any)["AAPL"].(map[string]any)
	assert.Equal(t, 12.0, aapl["shares"])
	assert.Equal(t, added, aapl["date_added"])

	w = do(router, http.MethodGet, "/api/holdings", "")
	assert.Len(t, decode(t, w)["holdings"], 1)

	w = do(router, http.MethodDelete, "/api/holdings/aapl", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["holdings"])
}

func TestHoldings_InvalidInput(t *testing.T) {
	router := setupRouter()

	for _, body := range []string{
		`{"ticker":"AAPL","shares":-1,"purchase_price":100}`,
		`{"ticker":"","shares":1,"purchase_price":100}`,
		`{"ticker":"AAPL","shares":"ten","purchase_price":100}`,
		`{"ticker":"AAPL","purchase_price":100}`,
	} {
		w := do(router, http.MethodPost, "/api/holdings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w := do(router, http.MethodGet, "/api/holdings", "")
	assert.Empty(t, decode(t, w)["holdings"])
}

func TestUpdateHolding_NotHeld(t *testing.T) {
	router := setupRouter()
	w := do(router, http.MethodPut, "/api/holdings/TSLA", `{"shares":1,"purchase_price":100}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPerformance(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodGet, "/api/performance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["empty"])

	do(router, http.MethodPost, "/api/holdings", `{"ticker":"AAPL","shares":10,"purchase_price":100}`)
	do(router, http.MethodPost, "/api/holdings", `{"ticker":"GHI","shares":5,"purchase_price":50}`)

	w = do(router, http.MethodGet, "/api/performance", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	totals := body["totals"].(map[string]any)
	assert.Equal(t, 1500.0, totals["total_current_value"])
	assert.Equal(t, 1000.0, totals["total_cost_basis"])
	assert.Equal(t, 500.0, totals["total_gain_loss"])
	assert.Equal(t, 50.0, totals["total_gain_loss_percent"])
	assert.Equal(t, []any{"GHI"}, body["excluded"])
}

func TestNarrative(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodGet, "/api/performance/narrative", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	do(router, http.MethodPost, "/api/holdings", `{"ticker":"GHI","shares":5,"purchase_price":50}`)
	w = do(router, http.MethodGet, "/api/performance/narrative", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	do(router, http.MethodPost, "/api/holdings", `{"ticker":"AAPL","shares":10,"purchase_price":100}`)
	w = do(router, http.MethodGet, "/api/performance/narrative", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["text"], "AAPL")
	assert.Contains(t, body["html"], "<p>")
}

func TestExportCSV(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodGet, "/api/performance/export.csv", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	do(router, http.MethodPost, "/api/holdings", `{"ticker":"AAPL","shares":10,"purchase_price":100}`)
	w = do(router, http.MethodGet, "/api/performance/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"stockly_portfolio_report_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 1+6)
	assert.Equal(t, "Total Gain/Loss,500.00", lines[5])
}

func TestExportPDF(t *testing.T) {
	router := setupRouter()
	do(router, http.MethodPost, "/api/holdings", `{"ticker":"VTI","shares":3,"purchase_price":200}`)

	w := do(router, http.MethodGet, "/api/performance/export.pdf?goal=retirement&risk=high&investment_amount=5,000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestHoldingHistory(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodGet, "/api/holdings/aapl/history?days=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "AAPL", body["ticker"])
	assert.Equal(t, true, body["available"])
	assert.Len(t, body["history"], 5)

	w = do(router, http.MethodGet, "/api/holdings/GHI/history", "")
	assert.Equal(t, false, decode(t, w)["available"])

	w = do(router, http.MethodGet, "/api/holdings/AAPL/history?days=soon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoals(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodPost, "/api/goals", `{"goal":"save_for_college","risk":"LOW","investment_amount":"25,000","time_horizon":"5_10_years"}`)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["profile"].(map[string]any)
	assert.Equal(t, "save_for_college", profile["goal"])
	assert.Equal(t, "low", profile["risk"])
	assert.Equal(t, 25000.0, profile["investment_amount"])

	w = do(router, http.MethodPost, "/api/goals", `{"goal":"retirement","investment_amount":"50"}`)
	require.Equal(t, http.StatusOK, w.Code)
	profile = decode(t, w)["profile"].(map[string]any)
	assert.NotContains(t, profile, "investment_amount")
	assert.Equal(t, "medium", profile["risk"])
}

func TestRecommendations(t *testing.T) {
	router := setupRouter()

	w := do(router, http.MethodGet, "/api/recommendations?goal=emergency_fund&risk=medium&investment_amount=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	picks := decode(t, w)["recommendations"].([]any)
	require.Len(t, picks, 3)
	first := picks[0].(map[string]any)
	assert.Equal(t, "SGOV", first["ticker"])
	assert.Equal(t, 500.0, first["dollar_amount"])
}
