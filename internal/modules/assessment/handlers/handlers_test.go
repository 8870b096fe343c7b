package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minjicho/jeonseguard/internal/events"
	"github.com/minjicho/jeonseguard/internal/modules/assessment"
	"github.com/minjicho/jeonseguard/internal/modules/model"
)

func setupHandlerTest(t *testing.T) (*Handler, *events.Bus) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE risk_assessments (
			id TEXT PRIMARY KEY,
			address_key TEXT NOT NULL,
			region_code TEXT NOT NULL DEFAULT '',
			deposit INTEGER NOT NULL,
			market_price INTEGER,
			price_source TEXT NOT NULL,
			senior_debt INTEGER NOT NULL DEFAULT 0,
			jeonse_ratio REAL,
			risk_score REAL NOT NULL,
			risk_level TEXT NOT NULL,
			model_prob REAL NOT NULL DEFAULT 0,
			model_degraded INTEGER NOT NULL DEFAULT 0,
			hug_eligible INTEGER NOT NULL DEFAULT 0,
			hug_safe_limit INTEGER NOT NULL DEFAULT 0,
			assessed_at INTEGER NOT NULL
		);
		CREATE UNIQUE INDEX idx_risk_assessments_address ON risk_assessments(address_key);
	`)
	require.NoError(t, err)

	engine := assessment.NewEngine(
		model.NewFallbackPredictor(),
		assessment.DefaultRuleConfig(),
		assessment.DefaultComposerConfig(),
		zerolog.Nop(),
	)
	repo := assessment.NewRepository(db, zerolog.Nop())
	bus := events.NewBus(zerolog.Nop())

	return NewHandler(engine, repo, bus, zerolog.Nop()), bus
}

func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	return r
}

func postAssess(t *testing.T, router http.Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleAssess_Success(t *testing.T) {
	h, bus := setupHandlerTest(t)
	router := testRouter(h)

	ch, cancel := bus.Subscribe()
	defer cancel()

	rec := postAssess(t, router, map[string]interface{}{
		"address_key":     "seoul-mapo-101-503",
		"region_code":     "11440",
		"deposit":         350_000_000,
		"market_price":    500_000_000,
		"price_source":    "DB_Trade",
		"ownership_start": "2020-03-10",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data struct {
			RiskScore  float64  `json:"risk_score"`
			RiskLevel  string   `json:"risk_level"`
			Recs       []string `json:"recommendations"`
			HugResult  struct {
				IsEligible bool `json:"is_eligible"`
			} `json:"hug_result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "SAFE", response.Data.RiskLevel)
	assert.True(t, response.Data.HugResult.IsEligible)
	assert.NotEmpty(t, response.Data.Recs)

	// Completion event was published
	select {
	case event := <-ch:
		assert.Equal(t, events.AssessmentCompleted, event.Type)
	default:
		t.Fatal("no completion event published")
	}
}

func TestHandleAssess_PersistsResult(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	rec := postAssess(t, router, map[string]interface{}{
		"address_key":  "addr-persist",
		"deposit":      100_000_000,
		"market_price": 200_000_000,
		"price_source": "DB_Trade",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/recent", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, req)

	require.Equal(t, http.StatusOK, listRec.Code)

	var response struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Data.Count)
}

func TestHandleAssess_InvalidInputIs400(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	rec := postAssess(t, router, map[string]interface{}{
		"deposit": -10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssess_UnverifiedDocumentsIs422(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	rec := postAssess(t, router, map[string]interface{}{
		"deposit":           100_000_000,
		"market_price":      200_000_000,
		"documents_matched": false,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleAssess_BadDateIs400(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	rec := postAssess(t, router, map[string]interface{}{
		"deposit":         100_000_000,
		"market_price":    200_000_000,
		"ownership_start": "10/03/2020",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssess_UnknownPriceSourceIs400(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	rec := postAssess(t, router, map[string]interface{}{
		"deposit":      100_000_000,
		"market_price": 200_000_000,
		"price_source": "Guesswork",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssess_MalformedBodyIs400(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListRecent_BadLimitIs400(t *testing.T) {
	h, _ := setupHandlerTest(t)
	router := testRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/recent?limit=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
