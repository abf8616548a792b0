package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/config"
	"github.com/hostlens/revpar-advisor/internal/diagnosis"
	"github.com/hostlens/revpar-advisor/internal/insights"
	"github.com/hostlens/revpar-advisor/internal/listing"
	"github.com/hostlens/revpar-advisor/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	dataset   *listing.Dataset
	insights  *insights.Service
	diagnosis *diagnosis.Service
	peers     *benchmark.Accessor
	storage   *storage.Storage
	config    *config.Config
	startedAt time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(ds *listing.Dataset, ins *insights.Service, diag *diagnosis.Service) *Handlers {
	return &Handlers{
		dataset:   ds,
		insights:  ins,
		diagnosis: diag,
		startedAt: time.Now(),
	}
}

// SetBenchmark sets the peer benchmark accessor
func (h *Handlers) SetBenchmark(a *benchmark.Accessor) {
	h.peers = a
}

// SetStorage sets the evaluation log and snapshot cache
func (h *Handlers) SetStorage(s *storage.Storage) {
	h.storage = s
}

// SetConfig sets the application config
func (h *Handlers) SetConfig(cfg *config.Config) {
	h.config = cfg
}

// HealthCheck reports service liveness and dataset provenance
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.dataset != nil {
		resp["dataset"] = map[string]interface{}{
			"source":    h.dataset.Source,
			"listings":  len(h.dataset.Listings),
			"districts": len(h.dataset.Districts),
			"loaded_at": h.dataset.LoadedAt,
		}
	}
	if h.storage != nil {
		resp["storage"] = h.storage.Stats()
	}
	if h.config != nil {
		resp["predictor"] = map[string]interface{}{
			"enabled": h.config.Predictor.Enabled,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// parseFilter extracts a listing filter from query parameters. All fields are
// optional; an empty query means Active+Operating listings, no slicing.
func parseFilter(r *http.Request) insights.Filter {
	q := r.URL.Query()
	f := insights.Filter{
		AllListings: q.Get("all") == "true",
		RoomType:    q.Get("room_type"),
	}
	if v := q.Get("superhost"); v != "" {
		b := v == "true"
		f.Superhost = &b
	}
	if v := q.Get("instant_book"); v != "" {
		b := v == "true"
		f.InstantBook = &b
	}
	if v := q.Get("districts"); v != "" {
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				f.Districts = append(f.Districts, d)
			}
		}
	}
	return f
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
