// Package cluster defines the closed set of Seoul market clusters produced by
// the district K-means segmentation (k=4) and the per-cluster constants shared
// by the diagnosis, benchmark, and insights services.
package cluster

import "fmt"

// ID identifies a market cluster. IDs match the cluster assignment column of
// the district table.
type ID int

const (
	PremiumTourismHub ID = iota
	GrowthResidential
	MidPriceBalanced
	PriceSensitiveOutskirts
)

// Profile holds the fixed characteristics of a market cluster.
type Profile struct {
	ID         ID      `json:"id"`
	Name       string  `json:"name"`
	Elasticity float64 `json:"elasticity"` // % occupancy change per 1% price change (negative)
	Color      string  `json:"color"`      // brand color used by the dashboard frontend
	Strategy   string  `json:"strategy"`   // advisory one-liner shown with the diagnosis
}

// profiles is the single source of truth for per-cluster constants. Elasticity
// magnitudes grow as markets become more price sensitive.
var profiles = map[ID]Profile{
	PremiumTourismHub: {
		ID:         PremiumTourismHub,
		Name:       "Premium Tourism Hub",
		Elasticity: -0.70,
		Color:      "#FF5A5F",
		Strategy:   "Demand tolerates premium pricing; compete on quality signals, not price cuts.",
	},
	GrowthResidential: {
		ID:         GrowthResidential,
		Name:       "Growth Residential",
		Elasticity: -0.85,
		Color:      "#E17055",
		Strategy:   "Rising demand; moderate price increases are absorbed if occupancy is healthy.",
	},
	MidPriceBalanced: {
		ID:         MidPriceBalanced,
		Name:       "Mid-Price Balanced",
		Elasticity: -0.95,
		Color:      "#F4A261",
		Strategy:   "Near unit elasticity; optimize occupancy drivers before touching price.",
	},
	PriceSensitiveOutskirts: {
		ID:         PriceSensitiveOutskirts,
		Name:       "Price-Sensitive Outskirts",
		Elasticity: -1.10,
		Color:      "#FF8589",
		Strategy:   "Price cuts win bookings; protect margin through cost control and min-stay policy.",
	},
}

// DefaultElasticity is used when a listing carries an unknown cluster
// assignment. It sits mid-range so the simulation degrades gracefully.
const DefaultElasticity = -0.9

// Lookup returns the profile for id. ok is false for assignments outside the
// closed set, in which case a neutral profile with DefaultElasticity is
// returned so callers never divide into missing data.
func Lookup(id ID) (Profile, bool) {
	p, ok := profiles[id]
	if !ok {
		return Profile{
			ID:         id,
			Name:       fmt.Sprintf("Cluster %d", id),
			Elasticity: DefaultElasticity,
			Color:      "#636E72",
			Strategy:   "Unclassified market; rule-based diagnosis uses market-wide defaults.",
		}, false
	}
	return p, true
}

// Elasticity returns the price elasticity of demand for id.
func Elasticity(id ID) float64 {
	p, _ := Lookup(id)
	return p.Elasticity
}

// All returns the profiles of the closed cluster set, ordered by ID.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for i := ID(0); int(i) < len(profiles); i++ {
		out = append(out, profiles[i])
	}
	return out
}
