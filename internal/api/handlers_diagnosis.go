package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hostlens/revpar-advisor/internal/listing"
)

// validateProfile rejects inputs the engine cannot evaluate meaningfully.
// Zero-valued optional fields are allowed; peer defaults fill them later.
func validateProfile(p listing.HostProfile) string {
	switch {
	case strings.TrimSpace(p.District) == "":
		return "district is required"
	case p.NightlyRate < 0:
		return "nightly_rate must not be negative"
	case p.Occupancy < 0 || p.Occupancy > 1:
		return "occupancy must be between 0 and 1"
	case p.Rating < 0 || p.Rating > 5:
		return "rating must be between 0 and 5"
	case p.ReviewCount < 0:
		return "review_count must not be negative"
	case p.PhotoCount < 0:
		return "photo_count must not be negative"
	case p.MinNights < 0:
		return "min_nights must not be negative"
	}
	return ""
}

// RunDiagnosis evaluates a host profile end to end and records the result
func (h *Handlers) RunDiagnosis(w http.ResponseWriter, r *http.Request) {
	if h.diagnosis == nil {
		respondError(w, http.StatusServiceUnavailable, "diagnosis service not initialized")
		return
	}

	var p listing.HostProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if msg := validateProfile(p); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	result := h.diagnosis.Diagnose(r.Context(), p)
	if h.storage != nil {
		h.storage.SaveEvaluation(r.Context(), result)
	}
	respondJSON(w, http.StatusOK, result)
}

// RunSimulation returns the price-elasticity grid without the full diagnosis
func (h *Handlers) RunSimulation(w http.ResponseWriter, r *http.Request) {
	if h.diagnosis == nil {
		respondError(w, http.StatusServiceUnavailable, "diagnosis service not initialized")
		return
	}

	var p listing.HostProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if msg := validateProfile(p); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	respondJSON(w, http.StatusOK, h.diagnosis.Simulate(p))
}

// GetRecentDiagnoses lists recent evaluations from the audit log
func (h *Handlers) GetRecentDiagnoses(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not initialized")
		return
	}
	limit := parseIntParam(r, "limit", 20)
	respondJSON(w, http.StatusOK, h.storage.RecentEvaluations(limit))
}

// GetDiagnosis returns one recorded evaluation by ID
func (h *Handlers) GetDiagnosis(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not initialized")
		return
	}
	id := chi.URLParam(r, "id")
	result, ok := h.storage.GetEvaluation(r.Context(), id)
	if !ok {
		respondError(w, http.StatusNotFound, "no evaluation with id "+id)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
