package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/listing"
)

func TestPhotoScore(t *testing.T) {
	cases := []struct {
		photos int
		want   float64
	}{
		{23, 100},
		{30, 100},
		{35, 100},
		{10, 100.0 * 10 / 23},
		{0, 0},
		{-3, 0},
		{36, 97.5},
		{50, 62.5},
		{75, 0},  // 100 - 40*2.5 = 0
		{200, 0}, // floor
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, PhotoScore(tc.photos), 0.001, "photos=%d", tc.photos)
	}
}

func TestGradeBoundaries(t *testing.T) {
	assert.Equal(t, "A", Grade(100))
	assert.Equal(t, "A", Grade(80))
	assert.Equal(t, "B", Grade(79.99))
	assert.Equal(t, "B", Grade(60))
	assert.Equal(t, "C", Grade(59.99))
	assert.Equal(t, "C", Grade(40))
	assert.Equal(t, "D", Grade(39.99))
	assert.Equal(t, "D", Grade(20))
	assert.Equal(t, "F", Grade(19.99))
	assert.Equal(t, "F", Grade(0))
}

func healthCohort() []listing.Listing {
	return []listing.Listing{
		{ReviewCount: 5, Rating: 4.2, MinNights: 1, POIDistanceKM: 0.5, Bedrooms: 1, Bathrooms: 1},
		{ReviewCount: 20, Rating: 4.6, MinNights: 2, POIDistanceKM: 1.0, Bedrooms: 2, Bathrooms: 1},
		{ReviewCount: 80, Rating: 4.9, MinNights: 3, POIDistanceKM: 2.0, Bedrooms: 2, Bathrooms: 2},
		{ReviewCount: 150, Rating: 5.0, MinNights: 7, POIDistanceKM: 4.0, Bedrooms: 3, Bathrooms: 2},
	}
}

func TestScoreHealthComponentsInRange(t *testing.T) {
	p := listing.HostProfile{
		ReviewCount: 25, Rating: 4.7, PhotoCount: 30, MinNights: 2,
		InstantBook: true, POIDistanceKM: 1.2, Bedrooms: 2, Bathrooms: 1,
	}
	h := ScoreHealth(p, healthCohort())

	for name, v := range map[string]float64{
		"review_signal":   h.Components.ReviewSignal,
		"listing_quality": h.Components.ListingQuality,
		"booking_policy":  h.Components.BookingPolicy,
		"location":        h.Components.Location,
		"listing_config":  h.Components.ListingConfig,
		"composite":       h.Composite,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
	assert.Equal(t, 4, h.CohortSize)
	assert.Equal(t, Grade(h.Composite), h.Grade)
}

func TestScoreHealthStrongerProfileScoresHigher(t *testing.T) {
	cohort := healthCohort()
	weak := listing.HostProfile{
		ReviewCount: 1, Rating: 3.5, PhotoCount: 2, MinNights: 14,
		ExtraGuestFee: true, POIDistanceKM: 5.0, Bedrooms: 0.5, Bathrooms: 0.5,
	}
	strong := listing.HostProfile{
		ReviewCount: 200, Rating: 5.0, PhotoCount: 30, MinNights: 1,
		InstantBook: true, POIDistanceKM: 0.2, Bedrooms: 3, Bathrooms: 2,
	}

	assert.Greater(t, ScoreHealth(strong, cohort).Composite, ScoreHealth(weak, cohort).Composite)
}

func TestScoreHealthEmptyCohortNeutral(t *testing.T) {
	p := listing.HostProfile{PhotoCount: 30, InstantBook: true}
	h := ScoreHealth(p, nil)

	assert.Equal(t, benchmark.NeutralRank, h.Components.ReviewSignal)
	assert.Equal(t, benchmark.NeutralRank, h.Components.Location)
	assert.Equal(t, benchmark.NeutralRank, h.Components.ListingConfig)
	// Photo band is cohort-free and still scores fully.
	assert.Equal(t, 100.0, h.Components.ListingQuality)
	assert.Equal(t, 0, h.CohortSize)
}

func TestScoreHealthAllZeroColumnIsNeutral(t *testing.T) {
	// Cohort rows exist but carry no distance signal.
	cohort := []listing.Listing{
		{ReviewCount: 10, Rating: 4.5, MinNights: 2, Bedrooms: 1, Bathrooms: 1},
		{ReviewCount: 30, Rating: 4.8, MinNights: 3, Bedrooms: 2, Bathrooms: 1},
	}
	p := listing.HostProfile{ReviewCount: 20, Rating: 4.6, POIDistanceKM: 1.0}
	h := ScoreHealth(p, cohort)

	assert.Equal(t, benchmark.NeutralRank, h.Components.Location)
	assert.NotEqual(t, benchmark.NeutralRank, h.Components.ReviewSignal)
}

func TestScoreHealthHalfDeadColumnStaysNeutral(t *testing.T) {
	// Review counts carry no signal while ratings do. The dead half must
	// contribute the neutral rank, not a flat 100 for ranking against zeros.
	cohort := []listing.Listing{
		{Rating: 4.0, MinNights: 2, POIDistanceKM: 1.0, Bedrooms: 1, Bathrooms: 1},
		{Rating: 4.5, MinNights: 3, POIDistanceKM: 2.0, Bedrooms: 2, Bathrooms: 1},
		{Rating: 5.0, MinNights: 4, POIDistanceKM: 3.0, Bedrooms: 2, Bathrooms: 2},
	}
	p := listing.HostProfile{ReviewCount: 40, Rating: 4.5}
	h := ScoreHealth(p, cohort)

	ratings := []float64{4.0, 4.5, 5.0}
	want := (benchmark.NeutralRank + benchmark.PercentileRank(ratings, 4.5)) / 2
	assert.InDelta(t, want, h.Components.ReviewSignal, 1e-9)

	// Both bedroom and bathroom columns are live here.
	assert.NotEqual(t, benchmark.NeutralRank, h.Components.ListingConfig)
}

func TestScoreHealthHalfDeadListingConfig(t *testing.T) {
	cohort := []listing.Listing{
		{ReviewCount: 10, Rating: 4.5, Bedrooms: 1},
		{ReviewCount: 30, Rating: 4.8, Bedrooms: 2},
		{ReviewCount: 50, Rating: 4.9, Bedrooms: 3},
	}
	p := listing.HostProfile{Bedrooms: 2, Bathrooms: 1}
	h := ScoreHealth(p, cohort)

	bedrooms := []float64{1, 2, 3}
	want := (benchmark.PercentileRank(bedrooms, 2) + benchmark.NeutralRank) / 2
	assert.InDelta(t, want, h.Components.ListingConfig, 1e-9)
}
