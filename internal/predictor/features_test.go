package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostlens/revpar-advisor/internal/listing"
)

func TestClampRatio(t *testing.T) {
	assert.InDelta(t, 1.5, clampRatio(30, 20), 1e-9)
	assert.Equal(t, 5.0, clampRatio(1000, 10), "capped at 5")
	assert.Equal(t, 0.0, clampRatio(-3, 10))
	assert.Equal(t, 1.0, clampRatio(30, 0), "no cohort signal reads as parity")
	assert.Equal(t, 1.0, clampRatio(30, -1))
}

func TestBuildFeaturesRatios(t *testing.T) {
	cohort := []listing.Listing{
		{PhotoCount: 10, Rating: 4.0, ReviewCount: 20, MinNights: 2},
		{PhotoCount: 30, Rating: 5.0, ReviewCount: 40, MinNights: 4},
	}
	p := listing.HostProfile{
		PhotoCount:  40,
		Rating:      4.5,
		ReviewCount: 300,
		MinNights:   3,
		NightlyRate: 123000,
	}
	agg := listing.DistrictAggregate{Cluster: 1, MedianRevPARAO: 42000, DormantRatio: 0.3}

	f := BuildFeatures(p, agg, cohort)

	assert.Equal(t, 1, f.DistrictCluster)
	assert.InDelta(t, 42000, f.DistrictRevPAR, 0.01)
	assert.InDelta(t, 2.0, f.PhotoRatio, 1e-9)   // 40 / mean(10,30)
	assert.InDelta(t, 1.0, f.RatingRatio, 1e-9)  // 4.5 / mean(4,5)
	assert.InDelta(t, 5.0, f.ReviewRatio, 1e-9)  // 300/30 capped
	assert.InDelta(t, 1.0, f.MinNightsRatio, 1e-9)
	assert.InDelta(t, 123000, f.CurrentRate, 0.01)
}

func TestBuildFeaturesEmptyCohort(t *testing.T) {
	f := BuildFeatures(listing.HostProfile{PhotoCount: 40}, listing.DistrictAggregate{}, nil)
	assert.Equal(t, 1.0, f.PhotoRatio)
	assert.Equal(t, 1.0, f.RatingRatio)
}
