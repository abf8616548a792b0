// Package listing holds the immutable peer dataset consumed by the dashboard
// and the diagnosis engine: one record per operating rental unit, one
// aggregate row per district, and the host-supplied input profile.
package listing

import (
	"time"

	"github.com/hostlens/revpar-advisor/internal/cluster"
)

// Listing statuses as they appear in the cleaned dataset.
const (
	StatusActive  = "Active"
	StatusDormant = "Dormant"
	StatusGhost   = "Ghost"

	OperationOperating = "Operating"
)

// Listing is one row of the cleaned peer dataset. Loaded once per process and
// never mutated afterwards.
type Listing struct {
	District        string     `json:"district"`
	RoomType        string     `json:"room_type"`
	NightlyRate     float64    `json:"nightly_rate"`
	Occupancy       float64    `json:"occupancy"` // fraction of nights booked, [0,1]
	TTMRevPAR       float64    `json:"ttm_revpar"`
	L90DRevPAR      float64    `json:"l90d_revpar"`
	TTMRevenue      float64    `json:"ttm_revenue"`
	ReviewCount     int        `json:"review_count"`
	Rating          float64    `json:"rating"` // 0-5
	PhotoCount      int        `json:"photo_count"`
	MinNights       int        `json:"min_nights"`
	Superhost       bool       `json:"superhost"`
	InstantBook     bool       `json:"instant_book"`
	ExtraGuestFee   bool       `json:"extra_guest_fee"`
	Bedrooms        float64    `json:"bedrooms"`
	Bathrooms       float64    `json:"bathrooms"`
	Guests          int        `json:"guests"`
	POIDistanceKM   float64    `json:"poi_distance_km"`
	POICategory     string     `json:"poi_category"`
	Cluster         cluster.ID `json:"cluster"`
	RefinedStatus   string     `json:"refined_status"`
	OperationStatus string     `json:"operation_status"`
	Latitude        float64    `json:"latitude"`  // masked coordinate
	Longitude       float64    `json:"longitude"` // masked coordinate
}

// ActiveOperating reports whether the listing is both Active and Operating,
// the scope used for all peer benchmarks.
func (l Listing) ActiveOperating() bool {
	return l.RefinedStatus == StatusActive && l.OperationStatus == OperationOperating
}

// Dormant reports whether the listing counts toward the dormant share.
func (l Listing) Dormant() bool {
	return l.RefinedStatus == StatusDormant || l.RefinedStatus == StatusGhost
}

// DistrictAggregate is one row of the district clustering table, derived
// upstream from the listing dataset and consumed read-only.
type DistrictAggregate struct {
	District       string     `json:"district"`
	Population     int        `json:"population"`
	Cluster        cluster.ID `json:"cluster"`
	ClusterName    string     `json:"cluster_name"`
	MedianRevPARAO float64    `json:"median_revpar_ao"`
	DormantRatio   float64    `json:"dormant_ratio"`
	SuperhostRate  float64    `json:"superhost_rate"`
	EntireHomeRate float64    `json:"entire_home_rate"`
	TotalListings  int        `json:"total_listings"`
	AOCount        int        `json:"ao_count"`
	SupplyShare    float64    `json:"supply_share"`
}

// Dataset bundles the two peer tables loaded at startup. It is shared across
// sessions and treated as immutable for the lifetime of the process.
type Dataset struct {
	Listings  []Listing           `json:"-"`
	Districts []DistrictAggregate `json:"-"`
	Source    string              `json:"source"`
	LoadedAt  time.Time           `json:"loaded_at"`
}

// District returns the aggregate row for name, if present.
func (d *Dataset) District(name string) (DistrictAggregate, bool) {
	for _, agg := range d.Districts {
		if agg.District == name {
			return agg, true
		}
	}
	return DistrictAggregate{}, false
}

// ClusterCohort returns the listings assigned to id. When aoOnly is set, only
// Active+Operating listings are included.
func (d *Dataset) ClusterCohort(id cluster.ID, aoOnly bool) []Listing {
	var out []Listing
	for _, l := range d.Listings {
		if l.Cluster != id {
			continue
		}
		if aoOnly && !l.ActiveOperating() {
			continue
		}
		out = append(out, l)
	}
	return out
}

// MonthlyCosts holds the host's fixed monthly cost line items in KRW.
// Negative entries are treated as zero when totalled.
type MonthlyCosts struct {
	Utilities    float64 `json:"utilities"`
	Management   float64 `json:"management"`
	Internet     float64 `json:"internet"`
	Cleaning     float64 `json:"cleaning"`
	LoanInterest float64 `json:"loan_interest"`
	Misc         float64 `json:"misc"`
}

// Total sums the line items, clamping each at zero.
func (c MonthlyCosts) Total() float64 {
	total := 0.0
	for _, v := range []float64{c.Utilities, c.Management, c.Internet, c.Cleaning, c.LoanInterest, c.Misc} {
		if v > 0 {
			total += v
		}
	}
	return total
}

// HostProfile is the subject of a diagnosis: one prospective or real listing
// as reported by the host, plus operating costs. The engine only reads it;
// all mutation happens in the UI layer that builds the profile.
type HostProfile struct {
	District      string       `json:"district"`
	RoomType      string       `json:"room_type"`
	NightlyRate   float64      `json:"nightly_rate"`
	Occupancy     float64      `json:"occupancy"`
	ReviewCount   int          `json:"review_count"`
	Rating        float64      `json:"rating"`
	PhotoCount    int          `json:"photo_count"`
	MinNights     int          `json:"min_nights"`
	Superhost     bool         `json:"superhost"`
	InstantBook   bool         `json:"instant_book"`
	ExtraGuestFee bool         `json:"extra_guest_fee"`
	Bedrooms      float64      `json:"bedrooms"`
	Bathrooms     float64      `json:"bathrooms"`
	Guests        int          `json:"guests"`
	POIDistanceKM float64      `json:"poi_distance_km"`
	POICategory   string       `json:"poi_category"`
	Costs         MonthlyCosts `json:"costs"`
}

// Documented defaults for host fields with no peer-derived benchmark.
const (
	DefaultPhotoCount = 20
	DefaultRating     = 4.7
)
