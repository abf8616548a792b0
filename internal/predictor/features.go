// Package predictor wraps the external ML price/occupancy model behind an
// explicit available/unavailable result. The model itself is an opaque HTTP
// service; any failure at this boundary degrades the diagnosis to its
// rule-based path instead of erroring.
package predictor

import (
	"github.com/hostlens/revpar-advisor/internal/listing"
)

// Relative-competitiveness ratios are clamped into [0, ratioCap].
const ratioCap = 5.0

// FeatureVector is the flat, typed feature record sent to the external
// predictor. Field names match the model's training schema.
type FeatureVector struct {
	DistrictCluster  int     `json:"district_cluster"`
	POIDistanceKM    float64 `json:"poi_distance_km"`
	POICategory      string  `json:"poi_category"`
	Bedrooms         float64 `json:"bedrooms"`
	Bathrooms        float64 `json:"bathrooms"`
	Guests           int     `json:"accommodates"`
	RoomType         string  `json:"room_type"`
	DistrictRevPAR   float64 `json:"district_median_revpar"`
	DormantRatio     float64 `json:"district_dormant_ratio"`
	SuperhostRate    float64 `json:"district_superhost_rate"`
	EntireHomeRate   float64 `json:"district_entire_home_rate"`
	Superhost        bool    `json:"superhost"`
	InstantBook      bool    `json:"instant_book"`
	ExtraGuestFee    bool    `json:"extra_guest_fee"`
	MinNights        int     `json:"min_nights"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	PhotoCount       int     `json:"photo_count"`
	PhotoRatio       float64 `json:"photo_ratio"`      // vs cohort mean, [0,5]
	RatingRatio      float64 `json:"rating_ratio"`     // vs cohort mean, [0,5]
	ReviewRatio      float64 `json:"review_ratio"`     // vs cohort mean, [0,5]
	MinNightsRatio   float64 `json:"min_nights_ratio"` // vs cohort mean, [0,5]
	CurrentRate      float64 `json:"current_rate"`
}

func clampRatio(host, cohortMean float64) float64 {
	if cohortMean <= 0 {
		return 1
	}
	r := host / cohortMean
	if r < 0 {
		return 0
	}
	if r > ratioCap {
		return ratioCap
	}
	return r
}

func mean(cohort []listing.Listing, pick func(listing.Listing) float64) float64 {
	if len(cohort) == 0 {
		return 0
	}
	sum := 0.0
	for _, l := range cohort {
		sum += pick(l)
	}
	return sum / float64(len(cohort))
}

// BuildFeatures assembles the feature record from the host profile, the
// district aggregate row, and the cluster cohort used for the relative
// ratios.
func BuildFeatures(p listing.HostProfile, agg listing.DistrictAggregate, cohort []listing.Listing) FeatureVector {
	photoMean := mean(cohort, func(l listing.Listing) float64 { return float64(l.PhotoCount) })
	ratingMean := mean(cohort, func(l listing.Listing) float64 { return l.Rating })
	reviewMean := mean(cohort, func(l listing.Listing) float64 { return float64(l.ReviewCount) })
	minNightsMean := mean(cohort, func(l listing.Listing) float64 { return float64(l.MinNights) })

	return FeatureVector{
		DistrictCluster: int(agg.Cluster),
		POIDistanceKM:   p.POIDistanceKM,
		POICategory:     p.POICategory,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		Guests:          p.Guests,
		RoomType:        p.RoomType,
		DistrictRevPAR:  agg.MedianRevPARAO,
		DormantRatio:    agg.DormantRatio,
		SuperhostRate:   agg.SuperhostRate,
		EntireHomeRate:  agg.EntireHomeRate,
		Superhost:       p.Superhost,
		InstantBook:     p.InstantBook,
		ExtraGuestFee:   p.ExtraGuestFee,
		MinNights:       p.MinNights,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		PhotoCount:      p.PhotoCount,
		PhotoRatio:      clampRatio(float64(p.PhotoCount), photoMean),
		RatingRatio:     clampRatio(p.Rating, ratingMean),
		ReviewRatio:     clampRatio(float64(p.ReviewCount), reviewMean),
		MinNightsRatio:  clampRatio(float64(p.MinNights), minNightsMean),
		CurrentRate:     p.NightlyRate,
	}
}
