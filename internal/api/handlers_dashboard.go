package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/insights"
)

// GetDashboard returns the full dashboard payload in one call. The rendered
// payload is cached per query string since every section is a pure function
// of the immutable dataset.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}

	cacheKey := "dashboard"
	if r.URL.RawQuery != "" {
		cacheKey += "?" + r.URL.RawQuery
	}
	if h.storage != nil {
		if cached := h.storage.GetSnapshot(r.Context(), cacheKey); cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.Write(cached)
			return
		}
	}

	f := parseFilter(r)
	payload := map[string]interface{}{
		"kpis":             h.insights.KPIs(),
		"districts":        h.insights.DistrictRevPARs(f),
		"room_types":       h.insights.RoomTypeMix(f),
		"status":           h.insights.StatusDistribution(),
		"growth":           h.insights.GrowthTrend(f.Districts),
		"dormant_risk":     h.insights.DormantRisks(f.Districts),
		"clusters":         h.insights.ClusterSummaries(),
		"cluster_profiles": h.insights.ClusterProfiles(),
		"photo_bins":       h.insights.PhotoBins(),
		"min_nights":       h.insights.MinNightsBins(),
		"host_drivers":     h.insights.SuperhostInstantCross(f.Districts),
	}

	if h.storage != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(payload); err == nil {
			h.storage.CacheSnapshot(r.Context(), cacheKey, buf.Bytes())
			w.Header().Set("Content-Type", "application/json")
			w.Write(buf.Bytes())
			return
		}
	}
	respondJSON(w, http.StatusOK, payload)
}

// GetKPIs returns the headline market KPIs
func (h *Handlers) GetKPIs(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	respondJSON(w, http.StatusOK, h.insights.KPIs())
}

// GetDistricts returns the district RevPAR ranking
func (h *Handlers) GetDistricts(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	respondJSON(w, http.StatusOK, h.insights.DistrictRevPARs(parseFilter(r)))
}

// GetDistrict returns one district's aggregate row plus its trend figures
func (h *Handlers) GetDistrict(w http.ResponseWriter, r *http.Request) {
	if h.dataset == nil {
		respondError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}
	name := chi.URLParam(r, "district")
	agg, ok := h.dataset.District(name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown district: "+name)
		return
	}

	resp := map[string]interface{}{"district": agg}
	if h.insights != nil {
		scope := []string{name}
		resp["growth"] = h.insights.GrowthTrend(scope)
		resp["dormant_risk"] = h.insights.DormantRisks(scope)
		resp["host_drivers"] = h.insights.SuperhostInstantCross(scope)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetClusters returns cluster summaries and normalized profiles
func (h *Handlers) GetClusters(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": h.insights.ClusterSummaries(),
		"profiles":  h.insights.ClusterProfiles(),
	})
}

// GetPhotoBins returns median RevPAR by photo-count bin
func (h *Handlers) GetPhotoBins(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	respondJSON(w, http.StatusOK, h.insights.PhotoBins())
}

// GetMinNightsBins returns median RevPAR by minimum-nights bin
func (h *Handlers) GetMinNightsBins(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	respondJSON(w, http.StatusOK, h.insights.MinNightsBins())
}

// GetHostDrivers returns the controllable RevPAR drivers in one payload:
// the superhost × instant-book cross plus both driver bin tables
func (h *Handlers) GetHostDrivers(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	f := parseFilter(r)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cross":      h.insights.SuperhostInstantCross(f.Districts),
		"photo_bins": h.insights.PhotoBins(),
		"min_nights": h.insights.MinNightsBins(),
	})
}

// GetMapSample returns a deterministic sample of listing coordinates
func (h *Handlers) GetMapSample(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "insights service not initialized")
		return
	}
	n := parseIntParam(r, "n", insights.DefaultMapSampleSize)
	respondJSON(w, http.StatusOK, h.insights.MapSample(n))
}

// GetBenchmark returns peer percentile stats for a district/room-type segment
func (h *Handlers) GetBenchmark(w http.ResponseWriter, r *http.Request) {
	if h.peers == nil {
		respondError(w, http.StatusServiceUnavailable, "benchmark accessor not initialized")
		return
	}

	seg := benchmark.Segment{
		District: r.URL.Query().Get("district"),
		RoomType: r.URL.Query().Get("room_type"),
	}

	stats := h.peers.Stats(seg)
	if v := r.URL.Query().Get("percentile"); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil || pct < 0 || pct > 100 {
			respondError(w, http.StatusBadRequest, "percentile must be a number between 0 and 100")
			return
		}
		stats = h.peers.StatsAt(seg, pct)
	}

	p25, median, p75, fallback := h.peers.RateBand(seg)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats": stats,
		"rate_band": map[string]interface{}{
			"p25":      p25,
			"median":   median,
			"p75":      p75,
			"fallback": fallback,
		},
	})
}
