package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostlens/revpar-advisor/internal/listing"
)

const (
	testP25    = 80000.0
	testMedian = 100000.0
	testP75    = 130000.0
)

func TestClassifyStagePremium(t *testing.T) {
	p := listing.HostProfile{Superhost: true, Rating: 4.8, ReviewCount: 50}
	res := ClassifyStage(p, testP25, testMedian, testP75, 0, false)

	assert.Equal(t, StagePremium, res.Stage)
	assert.Equal(t, testMedian, res.Band.Low)
	assert.Equal(t, testP75, res.Band.High)
}

func TestClassifyStagePremiumRequiresAllThree(t *testing.T) {
	// Missing any one premium criterion drops to stable (these all qualify
	// for stable on reviews and rating).
	cases := []listing.HostProfile{
		{Superhost: false, Rating: 4.9, ReviewCount: 100},
		{Superhost: true, Rating: 4.7, ReviewCount: 100},
		{Superhost: true, Rating: 4.9, ReviewCount: 49},
	}
	for i, p := range cases {
		res := ClassifyStage(p, testP25, testMedian, testP75, 0, false)
		assert.Equal(t, StageStable, res.Stage, "case %d", i)
	}
}

func TestClassifyStageStable(t *testing.T) {
	p := listing.HostProfile{Rating: 4.5, ReviewCount: 10}
	res := ClassifyStage(p, testP25, testMedian, testP75, 0, false)

	assert.Equal(t, StageStable, res.Stage)
	assert.Equal(t, testP25, res.Band.Low)
	assert.Equal(t, testMedian, res.Band.High)
}

func TestClassifyStageNew(t *testing.T) {
	p := listing.HostProfile{Rating: 4.9, ReviewCount: 3}
	res := ClassifyStage(p, testP25, testMedian, testP75, 0, false)

	assert.Equal(t, StageNew, res.Stage)
	assert.InDelta(t, testP25*0.85, res.Band.Low, 0.01)
	assert.Equal(t, testP25, res.Band.High)
}

func TestClassifyStageNewFloorRespectsBreakEven(t *testing.T) {
	p := listing.HostProfile{ReviewCount: 0}

	// Break-even above the discounted p25 raises the floor.
	res := ClassifyStage(p, testP25, testMedian, testP75, 75000, true)
	assert.Equal(t, StageNew, res.Stage)
	assert.InDelta(t, 75000, res.Band.Low, 0.01)

	// Break-even below the discounted p25 leaves it unchanged.
	res = ClassifyStage(p, testP25, testMedian, testP75, 50000, true)
	assert.InDelta(t, testP25*0.85, res.Band.Low, 0.01)

	// An undefined break-even never moves the floor.
	res = ClassifyStage(p, testP25, testMedian, testP75, 999999, false)
	assert.InDelta(t, testP25*0.85, res.Band.Low, 0.01)
}

func TestClassifyStageExhaustive(t *testing.T) {
	// Every profile lands in exactly one of the three stages.
	profiles := []listing.HostProfile{
		{},
		{Superhost: true},
		{Rating: 5.0, ReviewCount: 1000, Superhost: true},
		{Rating: 4.5, ReviewCount: 10},
		{Rating: 4.4, ReviewCount: 500},
		{Rating: 5.0, ReviewCount: 9},
	}
	for i, p := range profiles {
		res := ClassifyStage(p, testP25, testMedian, testP75, 0, false)
		assert.Contains(t, []Stage{StagePremium, StageStable, StageNew}, res.Stage, "profile %d", i)
		assert.NotEmpty(t, res.Label)
	}
}
