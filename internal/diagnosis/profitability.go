// Package diagnosis implements the host-facing revenue diagnostic engine:
// rule-based profitability, price-elasticity simulation, peer-relative health
// scoring, and operating-stage classification. Everything here is a pure
// function of the host profile and the peer dataset snapshot.
package diagnosis

// Market constants shared across the engine.
const (
	// PlatformFeeRate is the booking platform's cut of gross revenue.
	PlatformFeeRate = 0.03

	// DaysPerMonth is the fixed month length used for monthly projections.
	DaysPerMonth = 30
)

// Profitability is the rule-based P&L for one listing-month. All currency
// values are KRW.
type Profitability struct {
	NightlyRate      float64 `json:"nightly_rate"`
	Occupancy        float64 `json:"occupancy"`
	RevPAR           float64 `json:"revpar"` // revenue per available night
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	PlatformFee      float64 `json:"platform_fee"`
	MonthlyCosts     float64 `json:"monthly_costs"`
	NetProfit        float64 `json:"net_profit"`
	BreakEvenRate    float64 `json:"break_even_rate"`
	BreakEvenDefined bool    `json:"break_even_defined"`
}

// RevPAR is nightly rate times occupancy: revenue per available night.
func RevPAR(rate, occupancy float64) float64 {
	return rate * occupancy
}

// NetProfit computes monthly net profit for a rate, occupancy, and fixed
// monthly cost total: gross revenue minus platform fee minus costs.
func NetProfit(rate, occupancy, monthlyCosts float64) float64 {
	gross := RevPAR(rate, occupancy) * DaysPerMonth
	return gross - gross*PlatformFeeRate - monthlyCosts
}

// BreakEvenRate returns the nightly rate at which net profit is zero for the
// given occupancy and costs. With zero (or negative) occupancy no finite rate
// can break even; defined is false and the rate must not be read as a price.
func BreakEvenRate(monthlyCosts, occupancy float64) (rate float64, defined bool) {
	if occupancy <= 0 {
		return 0, false
	}
	return (monthlyCosts / (1 - PlatformFeeRate)) / (DaysPerMonth * occupancy), true
}

// Profit assembles the full monthly P&L.
func Profit(rate, occupancy, monthlyCosts float64) Profitability {
	revpar := RevPAR(rate, occupancy)
	gross := revpar * DaysPerMonth
	fee := gross * PlatformFeeRate
	breakEven, defined := BreakEvenRate(monthlyCosts, occupancy)

	return Profitability{
		NightlyRate:      rate,
		Occupancy:        occupancy,
		RevPAR:           revpar,
		MonthlyRevenue:   gross,
		PlatformFee:      fee,
		MonthlyCosts:     monthlyCosts,
		NetProfit:        gross - fee - monthlyCosts,
		BreakEvenRate:    breakEven,
		BreakEvenDefined: defined,
	}
}
