// Package insights computes the dashboard data tables over the peer dataset:
// market KPIs, RevPAR driver bins, district rankings, growth trends, and
// dormancy risk. The presentation layer renders these tables; nothing here
// draws charts.
package insights

import (
	"sort"

	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/listing"
)

// Service computes dashboard aggregates over the immutable dataset.
type Service struct {
	ds *listing.Dataset
}

// NewService creates an insights service over ds.
func NewService(ds *listing.Dataset) *Service {
	return &Service{ds: ds}
}

// Filter narrows dashboard queries, mirroring the dashboard filter bar.
// Zero-valued fields match everything.
type Filter struct {
	AllListings bool     `json:"all_listings"` // include non-Active+Operating rows
	RoomType    string   `json:"room_type"`
	Superhost   *bool    `json:"superhost"`
	InstantBook *bool    `json:"instant_book"`
	Districts   []string `json:"districts"`
}

func (f Filter) match(l listing.Listing) bool {
	if !f.AllListings && !l.ActiveOperating() {
		return false
	}
	if f.RoomType != "" && l.RoomType != f.RoomType {
		return false
	}
	if f.Superhost != nil && l.Superhost != *f.Superhost {
		return false
	}
	if f.InstantBook != nil && l.InstantBook != *f.InstantBook {
		return false
	}
	if len(f.Districts) > 0 {
		found := false
		for _, d := range f.Districts {
			if l.District == d {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Service) filtered(f Filter) []listing.Listing {
	var out []listing.Listing
	for _, l := range s.ds.Listings {
		if f.match(l) {
			out = append(out, l)
		}
	}
	return out
}

// KPIs are the headline market figures shown on the dashboard cards.
type KPIs struct {
	TotalListings      int     `json:"total_listings"`
	AOCount            int     `json:"ao_count"`
	AOSharePct         float64 `json:"ao_share_pct"`
	DormantSharePct    float64 `json:"dormant_share_pct"`
	MedianRevPARAll    float64 `json:"median_revpar_all"`
	MedianRevPARAO     float64 `json:"median_revpar_ao"`
	SuperhostRevPAR    float64 `json:"superhost_revpar"`
	NonSuperhostRevPAR float64 `json:"non_superhost_revpar"`
	SuperhostPremium   float64 `json:"superhost_premium_pct"`
	TotalTTMRevenue    float64 `json:"total_ttm_revenue"`
	MedianRating       float64 `json:"median_rating"`
	SuperhostPct       float64 `json:"superhost_pct"`
	InstantBookPct     float64 `json:"instant_book_pct"`
}

// KPIs computes the headline figures over the full dataset.
func (s *Service) KPIs() KPIs {
	var k KPIs
	k.TotalListings = len(s.ds.Listings)
	if k.TotalListings == 0 {
		return k
	}

	var allRevPAR, aoRevPAR, shRevPAR, nshRevPAR, aoRatings []float64
	dormant, superhosts, instant := 0, 0, 0
	for _, l := range s.ds.Listings {
		allRevPAR = append(allRevPAR, l.TTMRevPAR)
		k.TotalTTMRevenue += l.TTMRevenue
		if l.Dormant() {
			dormant++
		}
		if !l.ActiveOperating() {
			continue
		}
		k.AOCount++
		aoRevPAR = append(aoRevPAR, l.TTMRevPAR)
		aoRatings = append(aoRatings, l.Rating)
		if l.Superhost {
			superhosts++
			shRevPAR = append(shRevPAR, l.TTMRevPAR)
		} else {
			nshRevPAR = append(nshRevPAR, l.TTMRevPAR)
		}
		if l.InstantBook {
			instant++
		}
	}

	k.AOSharePct = 100 * float64(k.AOCount) / float64(k.TotalListings)
	k.DormantSharePct = 100 * float64(dormant) / float64(k.TotalListings)
	k.MedianRevPARAll = benchmark.Median(allRevPAR)
	k.MedianRevPARAO = benchmark.Median(aoRevPAR)
	k.SuperhostRevPAR = benchmark.Median(shRevPAR)
	k.NonSuperhostRevPAR = benchmark.Median(nshRevPAR)
	if k.NonSuperhostRevPAR > 0 {
		k.SuperhostPremium = (k.SuperhostRevPAR/k.NonSuperhostRevPAR - 1) * 100
	}
	k.MedianRating = benchmark.Median(aoRatings)
	if k.AOCount > 0 {
		k.SuperhostPct = 100 * float64(superhosts) / float64(k.AOCount)
		k.InstantBookPct = 100 * float64(instant) / float64(k.AOCount)
	}
	return k
}

// BinStat is one bin of a RevPAR driver histogram.
type BinStat struct {
	Label        string  `json:"label"`
	Count        int     `json:"count"`
	MedianRevPAR float64 `json:"median_revpar"`
	Optimal      bool    `json:"optimal"`
}

// photoBins and minNightsBins are the fixed bin edges used by the dashboard.
var photoBins = []struct {
	lo, hi  int // inclusive bounds
	label   string
	optimal bool
}{
	{1, 10, "1-10", false},
	{11, 20, "11-20", false},
	{21, 35, "21-35", true},
	{36, 50, "36-50", false},
	{51, 75, "51-75", false},
	{76, 100, "76-100", false},
	{101, 200, "101-200", false},
	{201, 2000, "200+", false},
}

var minNightsBins = []struct {
	lo, hi  int
	label   string
	optimal bool
}{
	{1, 1, "1 night", false},
	{2, 2, "2 nights", true},
	{3, 3, "3 nights", true},
	{4, 7, "4-7 nights", false},
	{8, 14, "8-14 nights", false},
	{15, 30, "15-30 nights", false},
}

// PhotoBins returns median RevPAR by photo-count bin over Active+Operating
// listings. The 21-35 band is flagged as the optimal range.
func (s *Service) PhotoBins() []BinStat {
	out := make([]BinStat, len(photoBins))
	values := make([][]float64, len(photoBins))
	for _, l := range s.ds.Listings {
		if !l.ActiveOperating() || l.PhotoCount <= 0 {
			continue
		}
		for i, b := range photoBins {
			if l.PhotoCount >= b.lo && l.PhotoCount <= b.hi {
				values[i] = append(values[i], l.TTMRevPAR)
				break
			}
		}
	}
	for i, b := range photoBins {
		out[i] = BinStat{
			Label:        b.label,
			Count:        len(values[i]),
			MedianRevPAR: benchmark.Median(values[i]),
			Optimal:      b.optimal,
		}
	}
	return out
}

// MinNightsBins returns median RevPAR by minimum-nights bin over
// Active+Operating listings with a policy of 30 nights or fewer. The 2-3
// night policies are flagged optimal.
func (s *Service) MinNightsBins() []BinStat {
	out := make([]BinStat, len(minNightsBins))
	values := make([][]float64, len(minNightsBins))
	for _, l := range s.ds.Listings {
		if !l.ActiveOperating() || l.MinNights < 1 || l.MinNights > 30 {
			continue
		}
		for i, b := range minNightsBins {
			if l.MinNights >= b.lo && l.MinNights <= b.hi {
				values[i] = append(values[i], l.TTMRevPAR)
				break
			}
		}
	}
	for i, b := range minNightsBins {
		out[i] = BinStat{
			Label:        b.label,
			Count:        len(values[i]),
			MedianRevPAR: benchmark.Median(values[i]),
			Optimal:      b.optimal,
		}
	}
	return out
}

// CrossCell is one cell of the superhost × instant-book RevPAR cross table.
type CrossCell struct {
	Superhost    bool    `json:"superhost"`
	InstantBook  bool    `json:"instant_book"`
	Count        int     `json:"count"`
	MedianRevPAR float64 `json:"median_revpar"`
}

// SuperhostInstantCross computes median RevPAR for the four superhost ×
// instant-book combinations over Active+Operating listings, optionally
// restricted to districts.
func (s *Service) SuperhostInstantCross(districts []string) []CrossCell {
	values := map[[2]bool][]float64{}
	for _, l := range s.ds.Listings {
		if !l.ActiveOperating() {
			continue
		}
		if len(districts) > 0 {
			found := false
			for _, d := range districts {
				if l.District == d {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		key := [2]bool{l.Superhost, l.InstantBook}
		values[key] = append(values[key], l.TTMRevPAR)
	}

	cells := make([]CrossCell, 0, 4)
	for _, sh := range []bool{true, false} {
		for _, ib := range []bool{true, false} {
			v := values[[2]bool{sh, ib}]
			cells = append(cells, CrossCell{
				Superhost:    sh,
				InstantBook:  ib,
				Count:        len(v),
				MedianRevPAR: benchmark.Median(v),
			})
		}
	}
	return cells
}

// DistrictRevPAR is one row of the district RevPAR ranking.
type DistrictRevPAR struct {
	District     string  `json:"district"`
	Count        int     `json:"count"`
	MedianRevPAR float64 `json:"median_revpar"`
}

// DistrictRevPARs ranks districts by median Active+Operating RevPAR,
// descending.
func (s *Service) DistrictRevPARs(f Filter) []DistrictRevPAR {
	f.AllListings = false
	byDistrict := map[string][]float64{}
	for _, l := range s.filtered(f) {
		byDistrict[l.District] = append(byDistrict[l.District], l.TTMRevPAR)
	}

	out := make([]DistrictRevPAR, 0, len(byDistrict))
	for d, v := range byDistrict {
		out = append(out, DistrictRevPAR{District: d, Count: len(v), MedianRevPAR: benchmark.Median(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MedianRevPAR > out[j].MedianRevPAR })
	return out
}

// RoomTypeStat is one slice of the room-type mix.
type RoomTypeStat struct {
	RoomType     string  `json:"room_type"`
	Count        int     `json:"count"`
	SharePct     float64 `json:"share_pct"`
	MedianRevPAR float64 `json:"median_revpar"`
}

// RoomTypeMix returns counts, shares, and median RevPAR by room type under f.
func (s *Service) RoomTypeMix(f Filter) []RoomTypeStat {
	values := map[string][]float64{}
	total := 0
	for _, l := range s.filtered(f) {
		values[l.RoomType] = append(values[l.RoomType], l.TTMRevPAR)
		total++
	}

	out := make([]RoomTypeStat, 0, len(values))
	for rt, v := range values {
		stat := RoomTypeStat{RoomType: rt, Count: len(v), MedianRevPAR: benchmark.Median(v)}
		if total > 0 {
			stat.SharePct = 100 * float64(len(v)) / float64(total)
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// StatusStat is one slice of the listing status distribution.
type StatusStat struct {
	Status   string  `json:"status"`
	Count    int     `json:"count"`
	SharePct float64 `json:"share_pct"`
}

// StatusDistribution counts listings by refined status over the full dataset.
func (s *Service) StatusDistribution() []StatusStat {
	counts := map[string]int{}
	for _, l := range s.ds.Listings {
		counts[l.RefinedStatus]++
	}

	out := make([]StatusStat, 0, len(counts))
	for status, n := range counts {
		stat := StatusStat{Status: status, Count: n}
		if len(s.ds.Listings) > 0 {
			stat.SharePct = 100 * float64(n) / float64(len(s.ds.Listings))
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// GrowthRow compares trailing-twelve-month and last-90-day median RevPAR for
// one district.
type GrowthRow struct {
	District   string  `json:"district"`
	TTMRevPAR  float64 `json:"ttm_revpar"`
	L90DRevPAR float64 `json:"l90d_revpar"`
}

// GrowthTrend returns TTM vs L90D median RevPAR per district over
// Active+Operating listings, sorted by TTM descending.
func (s *Service) GrowthTrend(districts []string) []GrowthRow {
	f := Filter{Districts: districts}
	ttm := map[string][]float64{}
	l90 := map[string][]float64{}
	for _, l := range s.filtered(f) {
		ttm[l.District] = append(ttm[l.District], l.TTMRevPAR)
		l90[l.District] = append(l90[l.District], l.L90DRevPAR)
	}

	out := make([]GrowthRow, 0, len(ttm))
	for d := range ttm {
		out = append(out, GrowthRow{
			District:   d,
			TTMRevPAR:  benchmark.Median(ttm[d]),
			L90DRevPAR: benchmark.Median(l90[d]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TTMRevPAR > out[j].TTMRevPAR })
	return out
}

// Dormancy risk bands.
const (
	RiskHigh   = "high"   // dormant ratio above 60%
	RiskMedium = "medium" // 40-60%
	RiskLow    = "low"    // below 40%
)

// DormantRisk is one district's dormancy figure with its risk band.
type DormantRisk struct {
	District     string  `json:"district"`
	DormantRatio float64 `json:"dormant_ratio"`
	Risk         string  `json:"risk"`
}

// DormantRisks bands each district's dormant ratio, sorted ascending so the
// healthiest districts lead.
func (s *Service) DormantRisks(districts []string) []DormantRisk {
	out := make([]DormantRisk, 0, len(s.ds.Districts))
	for _, agg := range s.ds.Districts {
		if len(districts) > 0 {
			found := false
			for _, d := range districts {
				if agg.District == d {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		risk := RiskLow
		switch {
		case agg.DormantRatio > 0.6:
			risk = RiskHigh
		case agg.DormantRatio > 0.4:
			risk = RiskMedium
		}
		out = append(out, DormantRisk{District: agg.District, DormantRatio: agg.DormantRatio, Risk: risk})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DormantRatio < out[j].DormantRatio })
	return out
}
