// Package benchmark exposes percentile statistics of peer listings for a
// market segment (district × room type). Narrow segments with no peers are
// common; every statistic degrades to a documented fallback constant rather
// than erroring.
package benchmark

import (
	"github.com/hostlens/revpar-advisor/internal/listing"
)

// Fallback constants applied when a segment has no matching peers (KRW).
const (
	FallbackRate      = 100000.0
	FallbackOccupancy = 0.40
	FallbackRevPAR    = FallbackRate * FallbackOccupancy
)

// Segment identifies a market segment. An empty RoomType matches all room
// types in the district; an empty District matches the whole market.
type Segment struct {
	District string `json:"district"`
	RoomType string `json:"room_type"`
}

// PeerStats holds segment statistics at a requested percentile.
type PeerStats struct {
	Segment    Segment `json:"segment"`
	Percentile float64 `json:"percentile"`
	Count      int     `json:"count"`
	Rate       float64 `json:"rate"`
	Occupancy  float64 `json:"occupancy"`
	RevPAR     float64 `json:"revpar"`
	Fallback   bool    `json:"fallback"` // true when constants were substituted
}

// Accessor computes peer statistics over the immutable dataset. Only
// Active+Operating listings participate in benchmarks.
type Accessor struct {
	ds *listing.Dataset
}

// NewAccessor creates an Accessor over ds.
func NewAccessor(ds *listing.Dataset) *Accessor {
	return &Accessor{ds: ds}
}

// peers returns the Active+Operating listings matching seg.
func (a *Accessor) peers(seg Segment) []listing.Listing {
	var out []listing.Listing
	for _, l := range a.ds.Listings {
		if !l.ActiveOperating() {
			continue
		}
		if seg.District != "" && l.District != seg.District {
			continue
		}
		if seg.RoomType != "" && l.RoomType != seg.RoomType {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Stats returns the median peer statistics for seg.
func (a *Accessor) Stats(seg Segment) PeerStats {
	return a.StatsAt(seg, 50)
}

// StatsAt returns peer statistics for seg at percentile pct (0-100). An empty
// segment yields the fallback constants with Fallback set.
func (a *Accessor) StatsAt(seg Segment, pct float64) PeerStats {
	peers := a.peers(seg)
	if len(peers) == 0 {
		return PeerStats{
			Segment:    seg,
			Percentile: pct,
			Rate:       FallbackRate,
			Occupancy:  FallbackOccupancy,
			RevPAR:     FallbackRevPAR,
			Fallback:   true,
		}
	}

	rates := make([]float64, 0, len(peers))
	occs := make([]float64, 0, len(peers))
	revpars := make([]float64, 0, len(peers))
	for _, p := range peers {
		rates = append(rates, p.NightlyRate)
		occs = append(occs, p.Occupancy)
		revpars = append(revpars, p.TTMRevPAR)
	}

	return PeerStats{
		Segment:    seg,
		Percentile: pct,
		Count:      len(peers),
		Rate:       Percentile(rates, pct),
		Occupancy:  Percentile(occs, pct),
		RevPAR:     Percentile(revpars, pct),
	}
}

// RateBand returns the p25/median/p75 nightly rates for seg in one pass over
// the peers. Used by the stage classifier's recommended price bands.
func (a *Accessor) RateBand(seg Segment) (p25, median, p75 float64, fallback bool) {
	peers := a.peers(seg)
	if len(peers) == 0 {
		return FallbackRate, FallbackRate, FallbackRate, true
	}
	rates := make([]float64, 0, len(peers))
	for _, p := range peers {
		rates = append(rates, p.NightlyRate)
	}
	return Percentile(rates, 25), Percentile(rates, 50), Percentile(rates, 75), false
}
