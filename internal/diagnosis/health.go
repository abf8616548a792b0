package diagnosis

import (
	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/listing"
)

// Photo-count scoring band: counts inside [23,35] score 100, below ramps up
// linearly, above decays 2.5 points per extra photo.
const (
	photoOptimalLow  = 23
	photoOptimalHigh = 35
	photoDecayPerPic = 2.5
)

// HealthComponents are the five peer-relative scores, each in [0,100].
type HealthComponents struct {
	ReviewSignal   float64 `json:"review_signal"`
	ListingQuality float64 `json:"listing_quality"`
	BookingPolicy  float64 `json:"booking_policy"`
	Location       float64 `json:"location"`
	ListingConfig  float64 `json:"listing_config"`
}

// HealthScore is the composite benchmark of a listing's operational signals
// against its market-cluster peers.
type HealthScore struct {
	Composite  float64          `json:"composite"`
	Grade      string           `json:"grade"`
	Components HealthComponents `json:"components"`
	CohortSize int              `json:"cohort_size"`
}

// PhotoScore maps a photo count onto [0,100]: full marks inside the optimal
// band, a linear ramp below it, linear decay above it.
func PhotoScore(photos int) float64 {
	n := float64(photos)
	switch {
	case photos >= photoOptimalLow && photos <= photoOptimalHigh:
		return 100
	case photos < photoOptimalLow:
		if n < 0 {
			return 0
		}
		return 100 * n / photoOptimalLow
	default:
		score := 100 - (n-photoOptimalHigh)*photoDecayPerPic
		if score < 0 {
			return 0
		}
		return score
	}
}

// Grade maps a composite score to a letter grade. Lower bounds are inclusive.
func Grade(composite float64) string {
	switch {
	case composite >= 80:
		return "A"
	case composite >= 60:
		return "B"
	case composite >= 40:
		return "C"
	case composite >= 20:
		return "D"
	default:
		return "F"
	}
}

// series extracts one numeric column from the cohort. available is false when
// the column carries no signal (empty cohort or all zeros), in which case the
// dependent component falls back to the neutral score.
func series(cohort []listing.Listing, pick func(listing.Listing) float64) (vals []float64, available bool) {
	vals = make([]float64, 0, len(cohort))
	for _, l := range cohort {
		v := pick(l)
		vals = append(vals, v)
		if v != 0 {
			available = true
		}
	}
	return vals, available
}

func flagScore(favorable bool) float64 {
	if favorable {
		return 100
	}
	return 0
}

// rankOrNeutral ranks v against vals when the column carries signal, and
// returns the neutral score otherwise so a dead column cannot skew a
// component averaged over several columns.
func rankOrNeutral(vals []float64, available bool, v float64) float64 {
	if !available {
		return benchmark.NeutralRank
	}
	return benchmark.PercentileRank(vals, v)
}

// ScoreHealth computes the five component scores for profile against the
// cluster cohort and combines them into the composite and grade. Missing
// peer columns degrade to the neutral 50 rather than failing.
func ScoreHealth(profile listing.HostProfile, cohort []listing.Listing) HealthScore {
	var c HealthComponents

	// 1. Review signal: mean of review-count and rating percentile ranks.
	reviews, reviewsOK := series(cohort, func(l listing.Listing) float64 { return float64(l.ReviewCount) })
	ratings, ratingsOK := series(cohort, func(l listing.Listing) float64 { return l.Rating })
	c.ReviewSignal = (rankOrNeutral(reviews, reviewsOK, float64(profile.ReviewCount)) +
		rankOrNeutral(ratings, ratingsOK, profile.Rating)) / 2

	// 2. Listing quality: photo-count band, no cohort needed.
	c.ListingQuality = PhotoScore(profile.PhotoCount)

	// 3. Booking policy: instant book, minimum nights vs peers (lower is
	// better, hence the inversion), and absence of an extra guest fee.
	minNights, minNightsOK := series(cohort, func(l listing.Listing) float64 { return float64(l.MinNights) })
	mnRank := rankOrNeutral(minNights, minNightsOK, float64(profile.MinNights))
	c.BookingPolicy = 0.4*flagScore(profile.InstantBook) +
		0.4*(100-mnRank) +
		0.2*flagScore(!profile.ExtraGuestFee)

	// 4. Location: closer to a point of interest ranks higher.
	distances, distancesOK := series(cohort, func(l listing.Listing) float64 { return l.POIDistanceKM })
	c.Location = 100 - rankOrNeutral(distances, distancesOK, profile.POIDistanceKM)

	// 5. Listing config: mean of bedroom and bathroom percentile ranks.
	bedrooms, bedroomsOK := series(cohort, func(l listing.Listing) float64 { return l.Bedrooms })
	bathrooms, bathroomsOK := series(cohort, func(l listing.Listing) float64 { return l.Bathrooms })
	c.ListingConfig = (rankOrNeutral(bedrooms, bedroomsOK, profile.Bedrooms) +
		rankOrNeutral(bathrooms, bathroomsOK, profile.Bathrooms)) / 2

	composite := (c.ReviewSignal + c.ListingQuality + c.BookingPolicy + c.Location + c.ListingConfig) / 5

	return HealthScore{
		Composite:  composite,
		Grade:      Grade(composite),
		Components: c,
		CohortSize: len(cohort),
	}
}
