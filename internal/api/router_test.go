package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/chart"
	"spx-dashboard/internal/controller"
	"spx-dashboard/internal/fixture"
	"spx-dashboard/internal/logging"
	"spx-dashboard/internal/metrics"
	"spx-dashboard/internal/model"
	"spx-dashboard/internal/notify"
	"spx-dashboard/internal/state"
	"spx-dashboard/internal/view"
)

var testNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router  *gin.Engine
	store   *state.Store
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	fx, err := fixture.Default()
	require.NoError(t, err)
	ds := fx.Dataset()
	store := state.NewStore(state.FromDataset(ds, analysis.RiskInputs{
		AccountBalance: decimal.NewFromInt(10000),
		RiskPercent:    decimal.NewFromInt(2),
	}))
	handle := chart.Initialize(view.SlotRSIChart, chart.SeriesFromHistory(ds.History), ds.Params.RSIThreshold)
	bus := notify.NewBus(logging.Discard())
	t.Cleanup(bus.Close)

	ctrl := controller.New(store, view.MustRenderer(), handle, bus, controller.Options{
		Hours:       analysis.DefaultMarketHours,
		Performance: analysis.PerformanceFixture,
		RiskWidth:   analysis.WidthFixed,
	}, logging.Discard())
	ctrl.SetNow(func() time.Time { return testNow })

	m := metrics.New()
	router := NewRouter(Deps{
		Controller: ctrl,
		Metrics:    m,
		Logger:     logging.Discard(),
	})
	return testServer{router: router, store: store, metrics: m}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPage(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	for _, slot := range []string{view.SlotRSIChart, view.SlotModal, view.SlotEntryDate} {
		assert.Contains(t, w.Body.String(), `id="`+slot+`"`)
	}
}

func TestPanel(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/panels/positions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-panel="positions"`)
	assert.Contains(t, w.Body.String(), "5800/5790")

	w = s.do(t, http.MethodGet, "/api/v1/panels/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
}

func TestSnapshot(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(analysis.SignalBuy), resp.Signal)
	assert.True(t, resp.MarketOpen)
	assert.Equal(t, "10", resp.RiskSpreadWidth)
	assert.Equal(t, "fixture", resp.PerformanceSource)
	assert.True(t, resp.Risk.MaxRisk.Equal(decimal.NewFromInt(200)), resp.Risk.MaxRisk.String())
	require.NotEmpty(t, resp.Positions)
	assert.True(t, resp.Positions[0].Metrics.Width.Equal(decimal.NewFromInt(10)))
	assert.False(t, resp.Modal.Open)
}

func TestChart(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg chart.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	require.Len(t, cfg.Data.Datasets, 2)
	assert.Equal(t, "line", cfg.Type)
}

func TestUpdateStrategy(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPut, "/api/v1/strategy", map[string]any{
		"rsi_threshold":  "30",
		"days_to_expiry": 14,
		"profit_target":  "50",
		"position_size":  "1",
		"max_positions":  5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.InteractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Contains(t, resp.Panels, string(view.PanelRSI))
	require.NotNil(t, resp.Chart)
	assert.Equal(t, []float64{30, 30}, resp.Chart.Data.Datasets[1].Data[:2])
	require.NotNil(t, resp.Notification)
	assert.Equal(t, controller.MsgStrategyUpdated, resp.Notification.Message)
	assert.Equal(t, 30.0, s.store.Get().Params.RSIThreshold)
}

func TestUpdateStrategy_Invalid(t *testing.T) {
	s := newTestServer(t)
	before := s.store.Get()

	w := s.do(t, http.MethodPut, "/api/v1/strategy", map[string]any{
		"rsi_threshold":  "abc",
		"days_to_expiry": "14",
		"profit_target":  "50",
		"position_size":  "1",
		"max_positions":  "5",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, "VALIDATION_FAILED", detail.Code)
	fields, ok := detail.Details["fields"].([]interface{})
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "rsi_threshold", fields[0].(map[string]interface{})["field"])

	assert.Equal(t, before.Version, s.store.Get().Version)
}

func TestMalformedJSON(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPut, "/api/v1/strategy", `{"rsi_threshold":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)

	w = s.do(t, http.MethodPost, "/api/v1/positions", `{"quantity": true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPositions(t *testing.T) {
	s := newTestServer(t)
	before := len(s.store.Get().Positions)
	today := model.DateOf(testNow)

	w := s.do(t, http.MethodPost, "/api/v1/positions", map[string]any{
		"entry_date":   today.String(),
		"short_strike": 5800,
		"long_strike":  5790,
		"expiry":       today.AddDays(10).String(),
		"quantity":     3,
		"entry_credit": "4.0",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.InteractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Panels, string(view.PanelPositions))
	assert.Contains(t, resp.Panels, string(view.PanelRiskResult))
	require.NotNil(t, resp.Notification)
	assert.Equal(t, controller.MsgPositionAdded, resp.Notification.Message)

	w = s.do(t, http.MethodGet, "/api/v1/positions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.PositionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Positions, before+1)
	added := list.Positions[len(list.Positions)-1]
	assert.Equal(t, model.StatusOpen, added.Status)
	assert.True(t, added.PnL.Equal(decimal.NewFromInt(600)))
	assert.True(t, added.Metrics.MaxRiskPerSpread.Equal(decimal.NewFromInt(6)))
}

func TestPositions_Invalid(t *testing.T) {
	s := newTestServer(t)
	today := model.DateOf(testNow)

	w := s.do(t, http.MethodPost, "/api/v1/positions", map[string]any{
		"entry_date":   today.String(),
		"short_strike": "5790",
		"long_strike":  "5800",
		"expiry":       today.AddDays(10).String(),
		"quantity":     "1",
		"entry_credit": "1.5",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "long_strike")
}

func TestRisk(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/risk", map[string]any{
		"account_balance": "50000",
		"risk_percent":    "1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.InteractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Panels[string(view.PanelRiskResult)], "$500")
	assert.True(t, s.store.Get().Risk.AccountBalance.Equal(decimal.NewFromInt(50000)))
}

func TestModal(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/modal/open", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "2025-09-15")
	assert.True(t, s.store.Get().Modal.Open)

	w = s.do(t, http.MethodPost, "/api/v1/modal/open", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "MODAL_STATE", decodeError(t, w).Code)

	w = s.do(t, http.MethodPost, "/api/v1/modal/close", map[string]string{"trigger": "backdrop", "target": "position-form"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `false`, gjson(t, w.Body.Bytes(), "changed"))
	assert.True(t, s.store.Get().Modal.Open)

	w = s.do(t, http.MethodPost, "/api/v1/modal/close", map[string]string{"trigger": "escape"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/modal/close", map[string]string{"trigger": "backdrop", "target": view.SlotModal})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.store.Get().Modal.Open)

	w = s.do(t, http.MethodPost, "/api/v1/modal/close", map[string]string{"trigger": "cancel"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// gjson pulls one top-level field out of a JSON object as raw JSON.
func gjson(t *testing.T, body []byte, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[key])
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/batteries", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)

	w = s.do(t, http.MethodGet, "/elsewhere", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/strategy", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagates(t *testing.T) {
	s := newTestServer(t)
	id := "3f1c6a52-9a53-4c38-8d2e-1d3f3c6f9b10"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/v1/panels/rsi", nil)

	w := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `spxdash_http_requests_total{method="GET",route="/api/v1/panels/:panel",status="200"} 1`), body)
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/boom", func(c *gin.Context) { panic("boom") })
	w := s.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Code)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `spxdash_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}
