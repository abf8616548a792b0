package diagnosis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/cluster"
	"github.com/hostlens/revpar-advisor/internal/listing"
	"github.com/hostlens/revpar-advisor/internal/predictor"
)

// Fallback host attributes used only when the cluster cohort itself is empty
// and no peer-derived default exists.
const (
	fallbackBedrooms  = 1.0
	fallbackBathrooms = 1.0
	fallbackGuests    = 2
	fallbackMinNights = 1
	fallbackPOIKM     = 1.0
)

// Result is the complete diagnosis for one host profile. It has no persisted
// identity in the engine; the ID only names the evaluation in the audit log.
type Result struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Profile     listing.HostProfile `json:"profile"` // after defaulting
	Segment     benchmark.Segment   `json:"segment"`
	Peers       benchmark.PeerStats `json:"peers"`
	Cluster     cluster.Profile     `json:"cluster"`

	Profitability Profitability       `json:"profitability"`
	Simulation    Simulation          `json:"simulation"`
	Health        HealthScore         `json:"health"`
	Stage         StageResult         `json:"stage"`
	ML            predictor.Diagnosis `json:"ml"`
}

// Service runs the full diagnostic pipeline. It owns no mutable state: each
// evaluation is a pure function of the profile and the dataset snapshot.
type Service struct {
	ds    *listing.Dataset
	peers *benchmark.Accessor
	ml    *predictor.Adapter
}

// NewService creates a diagnosis service over the immutable dataset.
func NewService(ds *listing.Dataset, peers *benchmark.Accessor) *Service {
	return &Service{ds: ds, peers: peers}
}

// SetPredictor wires the optional ML enrichment.
func (s *Service) SetPredictor(a *predictor.Adapter) {
	s.ml = a
}

// Diagnose evaluates one host profile end to end. It always returns a
// complete rule-based result; ML and peer enrichments degrade, never fail.
func (s *Service) Diagnose(ctx context.Context, p listing.HostProfile) *Result {
	agg, knownDistrict := s.ds.District(p.District)
	clusterID := agg.Cluster
	if !knownDistrict {
		clusterID = cluster.ID(-1) // outside the closed set; neutral profile
	}
	clusterProfile, _ := cluster.Lookup(clusterID)

	var cohort []listing.Listing
	if knownDistrict {
		cohort = s.ds.ClusterCohort(clusterID, true)
	}

	seg := benchmark.Segment{District: p.District, RoomType: p.RoomType}
	stats := s.peers.Stats(seg)
	profile := normalize(p, stats, cohort)
	costs := profile.Costs.Total()

	prof := Profit(profile.NightlyRate, profile.Occupancy, costs)
	sim := Simulate(profile.NightlyRate, profile.Occupancy, costs, clusterProfile.Elasticity)
	health := ScoreHealth(profile, cohort)

	p25, median, p75, _ := s.peers.RateBand(seg)
	stage := ClassifyStage(profile, p25, median, p75, prof.BreakEvenRate, prof.BreakEvenDefined)

	ml := s.ml.Diagnose(ctx, profile, agg, cohort)

	return &Result{
		ID:            uuid.NewString(),
		GeneratedAt:   time.Now(),
		Profile:       profile,
		Segment:       seg,
		Peers:         stats,
		Cluster:       clusterProfile,
		Profitability: prof,
		Simulation:    sim,
		Health:        health,
		Stage:         stage,
		ML:            ml,
	}
}

// Simulate runs only the elasticity scan for a profile, for the interactive
// price slider.
func (s *Service) Simulate(p listing.HostProfile) Simulation {
	agg, knownDistrict := s.ds.District(p.District)
	clusterID := agg.Cluster
	if !knownDistrict {
		clusterID = cluster.ID(-1)
	}
	clusterProfile, _ := cluster.Lookup(clusterID)

	var cohort []listing.Listing
	if knownDistrict {
		cohort = s.ds.ClusterCohort(clusterID, true)
	}
	stats := s.peers.Stats(benchmark.Segment{District: p.District, RoomType: p.RoomType})
	profile := normalize(p, stats, cohort)

	return Simulate(profile.NightlyRate, profile.Occupancy, profile.Costs.Total(), clusterProfile.Elasticity)
}

func cohortMedian(cohort []listing.Listing, pick func(listing.Listing) float64, fallback float64) float64 {
	if len(cohort) == 0 {
		return fallback
	}
	vals := make([]float64, 0, len(cohort))
	for _, l := range cohort {
		vals = append(vals, pick(l))
	}
	return benchmark.Median(vals)
}

// normalize fills unset (zero) numeric fields with peer-derived benchmarks,
// falling back to the documented constants where no peer data exists, and
// clamps reported values into their valid ranges.
func normalize(p listing.HostProfile, stats benchmark.PeerStats, cohort []listing.Listing) listing.HostProfile {
	if p.NightlyRate <= 0 {
		p.NightlyRate = stats.Rate
	}
	if p.Occupancy <= 0 {
		p.Occupancy = stats.Occupancy
	}
	if p.Occupancy > 1 {
		p.Occupancy = 1
	}
	if p.PhotoCount <= 0 {
		p.PhotoCount = listing.DefaultPhotoCount
	}
	if p.Rating <= 0 {
		p.Rating = listing.DefaultRating
	}
	if p.Rating > 5 {
		p.Rating = 5
	}
	if p.MinNights <= 0 {
		p.MinNights = int(cohortMedian(cohort, func(l listing.Listing) float64 { return float64(l.MinNights) }, fallbackMinNights))
		if p.MinNights <= 0 {
			p.MinNights = fallbackMinNights
		}
	}
	if p.Bedrooms <= 0 {
		p.Bedrooms = cohortMedian(cohort, func(l listing.Listing) float64 { return l.Bedrooms }, fallbackBedrooms)
	}
	if p.Bathrooms <= 0 {
		p.Bathrooms = cohortMedian(cohort, func(l listing.Listing) float64 { return l.Bathrooms }, fallbackBathrooms)
	}
	if p.Guests <= 0 {
		p.Guests = int(cohortMedian(cohort, func(l listing.Listing) float64 { return float64(l.Guests) }, fallbackGuests))
		if p.Guests <= 0 {
			p.Guests = fallbackGuests
		}
	}
	if p.POIDistanceKM <= 0 {
		p.POIDistanceKM = cohortMedian(cohort, func(l listing.Listing) float64 { return l.POIDistanceKM }, fallbackPOIKM)
	}
	return p
}
