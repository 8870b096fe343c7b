// Package handlers provides HTTP handlers for risk assessment operations.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/minjicho/jeonseguard/internal/events"
	"github.com/minjicho/jeonseguard/internal/modules/assessment"
	"github.com/minjicho/jeonseguard/internal/modules/model"
	"github.com/rs/zerolog"
)

// Handler handles assessment HTTP requests
type Handler struct {
	engine *assessment.Engine
	repo   *assessment.Repository
	bus    *events.Bus
	log    zerolog.Logger
}

// NewHandler creates a new assessment handler
func NewHandler(
	engine *assessment.Engine,
	repo *assessment.Repository,
	bus *events.Bus,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		engine: engine,
		repo:   repo,
		bus:    bus,
		log:    log.With().Str("handler", "assessment").Logger(),
	}
}

// AssessRequest represents a request to assess a jeonse contract
type AssessRequest struct {
	AddressKey string `json:"address_key"`
	RegionCode string `json:"region_code"`

	Deposit     int64  `json:"deposit"`
	MarketPrice *int64 `json:"market_price"`
	PriceSource string `json:"price_source"`
	SeniorDebt  int64  `json:"senior_debt"`

	IsTrustRegistered bool `json:"is_trust"`
	IsIllegalBuilding bool `json:"is_illegal_building"`

	OwnershipStart     string `json:"ownership_start"`     // YYYY-MM-DD, empty when unknown
	BuildingCompletion string `json:"building_completion"` // YYYY-MM-DD, empty when unknown

	// DocumentsMatched defaults to true when omitted; clients that run
	// their own document cross-check pass the result explicitly.
	DocumentsMatched *bool `json:"documents_matched"`
}

const dateLayout = "2006-01-02"

func (req *AssessRequest) toFacts() (assessment.PropertyFacts, error) {
	facts := assessment.PropertyFacts{
		AddressKey:        req.AddressKey,
		RegionCode:        req.RegionCode,
		Deposit:           req.Deposit,
		MarketPrice:       req.MarketPrice,
		SeniorDebt:        req.SeniorDebt,
		IsTrustRegistered: req.IsTrustRegistered,
		IsIllegalBuilding: req.IsIllegalBuilding,
		DocumentsMatched:  true,
	}

	if req.DocumentsMatched != nil {
		facts.DocumentsMatched = *req.DocumentsMatched
	}

	switch req.PriceSource {
	case "":
		// Infer when the client didn't say how the price was resolved
		if req.MarketPrice != nil {
			facts.PriceSource = assessment.PriceSourceExternal
		} else {
			facts.PriceSource = assessment.PriceSourceUnresolved
		}
	case string(assessment.PriceSourceDBTrade),
		string(assessment.PriceSourceDBPublicPrice),
		string(assessment.PriceSourceExternal),
		string(assessment.PriceSourceUnresolved):
		facts.PriceSource = assessment.PriceSource(req.PriceSource)
	default:
		return facts, fmt.Errorf("unknown price_source %q", req.PriceSource)
	}

	if req.OwnershipStart != "" {
		t, err := time.Parse(dateLayout, req.OwnershipStart)
		if err != nil {
			return facts, fmt.Errorf("invalid ownership_start: %w", err)
		}
		facts.OwnershipStart = &t
	}

	if req.BuildingCompletion != "" {
		t, err := time.Parse(dateLayout, req.BuildingCompletion)
		if err != nil {
			return facts, fmt.Errorf("invalid building_completion: %w", err)
		}
		facts.BuildingCompletion = &t
	}

	return facts, nil
}

// HandleAssess handles POST /api/v1/assess
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	facts, err := req.toFacts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.engine.Assess(facts)
	if err != nil {
		h.writeAssessError(w, err)
		return
	}

	if err := h.repo.Save(facts, result); err != nil {
		// The assessment itself succeeded; persistence is best-effort
		h.log.Error().Err(err).Str("address_key", facts.AddressKey).Msg("Failed to persist assessment")
	}

	h.bus.Publish(events.AssessmentCompleted, events.AssessmentCompletedData{
		AddressKey:    facts.AddressKey,
		RegionCode:    facts.RegionCode,
		RiskScore:     result.RiskScore,
		RiskLevel:     string(result.RiskLevel),
		ModelDegraded: result.ModelDegraded,
	})

	response := map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeAssessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assessment.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, assessment.ErrUnverifiedDocuments):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, model.ErrModelUnavailable):
		h.log.Error().Err(err).Msg("Model unavailable")
		http.Error(w, "Risk model unavailable", http.StatusServiceUnavailable)
	default:
		h.log.Error().Err(err).Msg("Assessment failed")
		http.Error(w, "Assessment failed", http.StatusInternalServerError)
	}
}

// HandleListRecent handles GET /api/v1/assessments/recent
func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = parsed
	}

	assessments, err := h.repo.ListRecent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list recent assessments")
		http.Error(w, "Failed to list assessments", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"assessments": assessments,
			"count":       len(assessments),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
