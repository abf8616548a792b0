package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostlens/revpar-advisor/internal/cluster"
	"github.com/hostlens/revpar-advisor/internal/listing"
)

func TestClusterProfilesNormalization(t *testing.T) {
	rows := NewService(insightsDataset()).ClusterProfiles()
	require.Len(t, rows, 3)

	// Ordered by cluster ID.
	assert.Equal(t, cluster.PremiumTourismHub, rows[0].Cluster)
	assert.Equal(t, cluster.GrowthResidential, rows[1].Cluster)
	assert.Equal(t, cluster.PriceSensitiveOutskirts, rows[2].Cluster)

	for _, row := range rows {
		for _, col := range profileColumns {
			v, ok := row.Normalized[col]
			require.True(t, ok, "%s missing %s", row.ClusterName, col)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	// The RevPAR extremes normalize to (almost) 0 and 1.
	assert.InDelta(t, 1.0, rows[0].Normalized["median_revpar_ao"], 1e-6)
	assert.InDelta(t, 0.0, rows[2].Normalized["median_revpar_ao"], 1e-6)
	assert.InDelta(t, 45000, rows[0].Raw["median_revpar_ao"], 0.01)
}

func TestClusterProfilesConstantColumn(t *testing.T) {
	// A column identical across clusters must not divide by zero.
	ds := &listing.Dataset{
		Districts: []listing.DistrictAggregate{
			{District: "A", Cluster: 0, MedianRevPARAO: 40000, DormantRatio: 0.5},
			{District: "B", Cluster: 1, MedianRevPARAO: 30000, DormantRatio: 0.5},
		},
	}
	rows := NewService(ds).ClusterProfiles()
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.InDelta(t, 0.0, row.Normalized["dormant_ratio"], 1e-6)
	}
}

func TestClusterProfilesEmptyDistrictTable(t *testing.T) {
	svc := NewService(&listing.Dataset{})
	assert.Empty(t, svc.ClusterProfiles())
	assert.Empty(t, svc.ClusterSummaries())
}

func TestClusterSummaries(t *testing.T) {
	out := NewService(insightsDataset()).ClusterSummaries()
	require.Len(t, out, 3)

	// Sorted by RevPAR descending.
	assert.Equal(t, cluster.PremiumTourismHub, out[0].Cluster)
	assert.Equal(t, "Premium Tourism Hub", out[0].ClusterName)
	assert.InDelta(t, -0.70, out[0].Elasticity, 1e-9)
	assert.NotEmpty(t, out[0].Color)
	assert.NotEmpty(t, out[0].Strategy)
	assert.Equal(t, 1, out[0].Districts)
	assert.Equal(t, cluster.PriceSensitiveOutskirts, out[2].Cluster)
}

func mapDataset(n int) *listing.Dataset {
	ds := &listing.Dataset{}
	for i := 0; i < n; i++ {
		ds.Listings = append(ds.Listings, listing.Listing{
			District:  "Jongno-gu",
			Latitude:  37.5 + float64(i)*1e-4,
			Longitude: 127.0,
			TTMRevPAR: float64(i),
		})
	}
	return ds
}

func TestMapSampleDeterministic(t *testing.T) {
	svc := NewService(mapDataset(100))

	a := svc.MapSample(10)
	b := svc.MapSample(10)
	require.Len(t, a, 10)
	assert.Equal(t, a, b, "same seed, same sample")
}

func TestMapSampleSmallDatasetReturnedWhole(t *testing.T) {
	svc := NewService(mapDataset(7))
	assert.Len(t, svc.MapSample(100), 7)
}

func TestMapSampleSkipsMissingCoordinates(t *testing.T) {
	ds := mapDataset(3)
	ds.Listings = append(ds.Listings, listing.Listing{District: "Mapo-gu"})
	assert.Len(t, NewService(ds).MapSample(100), 3)
}
