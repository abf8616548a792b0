package diagnosis

// Price-change grid scanned by the optimal-price search. The step yields 81
// evenly spaced points across [-30%, +50%].
const (
	GridMinDelta = -0.30
	GridMaxDelta = 0.50
	GridPoints   = 81
)

// PricePoint is one evaluated point on the elasticity-driven profit curve.
type PricePoint struct {
	Delta     float64 `json:"delta"` // proportional price change
	Rate      float64 `json:"rate"`
	Occupancy float64 `json:"occupancy"`
	RevPAR    float64 `json:"revpar"`
	NetProfit float64 `json:"net_profit"`
}

// Simulation is the full profit curve plus the profit-maximizing point.
type Simulation struct {
	Elasticity float64      `json:"elasticity"`
	Points     []PricePoint `json:"points"`
	Optimal    PricePoint   `json:"optimal"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SimulatePoint evaluates a single proportional price change delta (> -1).
// Elasticity applies linearly to the relative occupancy change and the
// resulting occupancy is clamped to [0,1].
func SimulatePoint(rate, occupancy, monthlyCosts, elasticity, delta float64) PricePoint {
	newRate := rate * (1 + delta)
	newOcc := clamp01(occupancy * (1 + elasticity*delta))
	return PricePoint{
		Delta:     delta,
		Rate:      newRate,
		Occupancy: newOcc,
		RevPAR:    RevPAR(newRate, newOcc),
		NetProfit: NetProfit(newRate, newOcc, monthlyCosts),
	}
}

// Simulate scans the bounded delta grid and returns the curve together with
// the first profit maximum encountered (lowest delta wins exact ties). The
// scan is deterministic for a given grid resolution.
func Simulate(rate, occupancy, monthlyCosts, elasticity float64) Simulation {
	sim := Simulation{
		Elasticity: elasticity,
		Points:     make([]PricePoint, 0, GridPoints),
	}

	step := (GridMaxDelta - GridMinDelta) / float64(GridPoints-1)
	for i := 0; i < GridPoints; i++ {
		delta := GridMinDelta + float64(i)*step
		pt := SimulatePoint(rate, occupancy, monthlyCosts, elasticity, delta)
		sim.Points = append(sim.Points, pt)
		if i == 0 || pt.NetProfit > sim.Optimal.NetProfit {
			sim.Optimal = pt
		}
	}
	return sim
}
