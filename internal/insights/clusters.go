package insights

import (
	"math/rand"
	"sort"

	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/cluster"
)

// normEpsilon guards the min-max denominator when a column is constant.
const normEpsilon = 1e-9

// ClusterProfileRow is one cluster's mean characteristics, raw and min-max
// normalized across clusters for the profile heatmap.
type ClusterProfileRow struct {
	Cluster     cluster.ID         `json:"cluster"`
	ClusterName string             `json:"cluster_name"`
	Raw         map[string]float64 `json:"raw"`
	Normalized  map[string]float64 `json:"normalized"`
}

// profileColumns are the district-aggregate columns profiled per cluster.
var profileColumns = []string{
	"median_revpar_ao",
	"dormant_ratio",
	"superhost_rate",
	"supply_share",
	"ao_count",
}

// ClusterProfiles computes per-cluster column means over the district table
// and normalizes each column to [0,1] across clusters.
func (s *Service) ClusterProfiles() []ClusterProfileRow {
	type accum struct {
		name string
		sums map[string]float64
		n    int
	}
	byCluster := map[cluster.ID]*accum{}
	for _, agg := range s.ds.Districts {
		a, ok := byCluster[agg.Cluster]
		if !ok {
			a = &accum{name: agg.ClusterName, sums: map[string]float64{}}
			byCluster[agg.Cluster] = a
		}
		a.sums["median_revpar_ao"] += agg.MedianRevPARAO
		a.sums["dormant_ratio"] += agg.DormantRatio
		a.sums["superhost_rate"] += agg.SuperhostRate
		a.sums["supply_share"] += agg.SupplyShare
		a.sums["ao_count"] += float64(agg.AOCount)
		a.n++
	}

	rows := make([]ClusterProfileRow, 0, len(byCluster))
	for id, a := range byCluster {
		raw := make(map[string]float64, len(profileColumns))
		for _, col := range profileColumns {
			raw[col] = a.sums[col] / float64(a.n)
		}
		rows = append(rows, ClusterProfileRow{
			Cluster:     id,
			ClusterName: a.name,
			Raw:         raw,
			Normalized:  make(map[string]float64, len(profileColumns)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Cluster < rows[j].Cluster })

	if len(rows) == 0 {
		return rows
	}
	for _, col := range profileColumns {
		lo, hi := rows[0].Raw[col], rows[0].Raw[col]
		for _, r := range rows[1:] {
			if r.Raw[col] < lo {
				lo = r.Raw[col]
			}
			if r.Raw[col] > hi {
				hi = r.Raw[col]
			}
		}
		for i := range rows {
			rows[i].Normalized[col] = (rows[i].Raw[col] - lo) / (hi - lo + normEpsilon)
		}
	}
	return rows
}

// ClusterSummary is one cluster's roll-up for the dashboard side panel.
type ClusterSummary struct {
	Cluster      cluster.ID `json:"cluster"`
	ClusterName  string     `json:"cluster_name"`
	Color        string     `json:"color"`
	Strategy     string     `json:"strategy"`
	Elasticity   float64    `json:"elasticity"`
	Districts    int        `json:"districts"`
	MedianRevPAR float64    `json:"median_revpar"`
}

// ClusterSummaries rolls up districts per cluster, sorted by RevPAR
// descending.
func (s *Service) ClusterSummaries() []ClusterSummary {
	revpars := map[cluster.ID][]float64{}
	names := map[cluster.ID]string{}
	for _, agg := range s.ds.Districts {
		revpars[agg.Cluster] = append(revpars[agg.Cluster], agg.MedianRevPARAO)
		names[agg.Cluster] = agg.ClusterName
	}

	out := make([]ClusterSummary, 0, len(revpars))
	for id, v := range revpars {
		p, _ := cluster.Lookup(id)
		name := names[id]
		if name == "" {
			name = p.Name
		}
		out = append(out, ClusterSummary{
			Cluster:      id,
			ClusterName:  name,
			Color:        p.Color,
			Strategy:     p.Strategy,
			Elasticity:   p.Elasticity,
			Districts:    len(v),
			MedianRevPAR: benchmark.Median(v),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MedianRevPAR > out[j].MedianRevPAR })
	return out
}

// mapSampleSeed keeps the map sample stable across requests so the frontend
// can cache tiles.
const mapSampleSeed = 42

// DefaultMapSampleSize caps the geographic sample.
const DefaultMapSampleSize = 5000

// MapPoint is one sampled listing for the geographic scatter.
type MapPoint struct {
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"lon"`
	District        string  `json:"district"`
	RoomType        string  `json:"room_type"`
	TTMRevPAR       float64 `json:"ttm_revpar"`
	Superhost       bool    `json:"superhost"`
	ActiveOperating bool    `json:"active_operating"`
}

// MapSample returns a deterministic sample of up to n listings that carry
// coordinates.
func (s *Service) MapSample(n int) []MapPoint {
	if n <= 0 {
		n = DefaultMapSampleSize
	}

	var points []MapPoint
	for _, l := range s.ds.Listings {
		if l.Latitude == 0 && l.Longitude == 0 {
			continue
		}
		points = append(points, MapPoint{
			Latitude:        l.Latitude,
			Longitude:       l.Longitude,
			District:        l.District,
			RoomType:        l.RoomType,
			TTMRevPAR:       l.TTMRevPAR,
			Superhost:       l.Superhost,
			ActiveOperating: l.ActiveOperating(),
		})
	}
	if len(points) <= n {
		return points
	}

	rng := rand.New(rand.NewSource(mapSampleSeed))
	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
	return points[:n]
}
