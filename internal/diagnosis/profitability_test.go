package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitTypicalListing(t *testing.T) {
	// 100,000 KRW/night at 40% occupancy with 540,000 KRW fixed costs.
	p := Profit(100000, 0.40, 540000)

	assert.InDelta(t, 40000, p.RevPAR, 0.01)
	assert.InDelta(t, 1200000, p.MonthlyRevenue, 0.01)
	assert.InDelta(t, 36000, p.PlatformFee, 0.01)
	assert.InDelta(t, 624000, p.NetProfit, 0.01)
	assert.True(t, p.BreakEvenDefined)
}

func TestNetProfitIdentity(t *testing.T) {
	// net = rate * occ * 30 * (1 - fee) - costs, across a spread of inputs
	cases := []struct{ rate, occ, costs float64 }{
		{100000, 0.40, 540000},
		{250000, 0.85, 1200000},
		{50000, 0.10, 300000},
		{100000, 0.40, 0},
	}
	for _, tc := range cases {
		want := tc.rate*tc.occ*DaysPerMonth*(1-PlatformFeeRate) - tc.costs
		assert.InDelta(t, want, NetProfit(tc.rate, tc.occ, tc.costs), 0.01)
	}
}

func TestBreakEvenRateInverse(t *testing.T) {
	// Pricing exactly at break-even yields zero net profit.
	for _, occ := range []float64{0.1, 0.4, 0.75, 1.0} {
		rate, defined := BreakEvenRate(540000, occ)
		assert.True(t, defined)
		assert.InDelta(t, 0, NetProfit(rate, occ, 540000), 0.01,
			"occupancy %.2f", occ)
	}
}

func TestBreakEvenRateUndefinedAtZeroOccupancy(t *testing.T) {
	rate, defined := BreakEvenRate(540000, 0)
	assert.False(t, defined)
	assert.Zero(t, rate)

	_, defined = BreakEvenRate(540000, -0.1)
	assert.False(t, defined)

	p := Profit(100000, 0, 540000)
	assert.False(t, p.BreakEvenDefined)
	assert.InDelta(t, -540000, p.NetProfit, 0.01, "vacant listing still pays fixed costs")
}

func TestBreakEvenRateZeroCosts(t *testing.T) {
	rate, defined := BreakEvenRate(0, 0.5)
	assert.True(t, defined)
	assert.Zero(t, rate)
}
