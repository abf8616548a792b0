package predictor

import (
	"context"
	"log"

	"github.com/hostlens/revpar-advisor/internal/listing"
)

// Gaps are host-reported minus predicted, per metric. Positive rate gap means
// the host charges above the model's estimate.
type Gaps struct {
	Rate      float64 `json:"rate"`
	Occupancy float64 `json:"occupancy"`
	RevPAR    float64 `json:"revpar"`
}

// Diagnosis is the explicit result of the ML enrichment. Callers must branch
// on Available: when false the rule-based diagnosis stands alone and Reason
// says why.
type Diagnosis struct {
	Available  bool        `json:"available"`
	Reason     string      `json:"reason,omitempty"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Gaps       *Gaps       `json:"gaps,omitempty"`
}

// Unavailable builds the degraded variant.
func Unavailable(reason string) Diagnosis {
	return Diagnosis{Available: false, Reason: reason}
}

// Adapter assembles features, invokes the predictor, and computes the gaps
// between reported and predicted performance.
type Adapter struct {
	client *Client
}

// NewAdapter wraps client; a nil client yields permanently-unavailable
// diagnoses, which keeps the caller's wiring uniform.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Diagnose runs the ML enrichment for one host profile. It never returns an
// error: any predictor failure is logged and folded into an unavailable
// result.
func (a *Adapter) Diagnose(ctx context.Context, p listing.HostProfile, agg listing.DistrictAggregate, cohort []listing.Listing) Diagnosis {
	if a == nil || a.client == nil {
		return Unavailable("predictor not configured")
	}

	features := BuildFeatures(p, agg, cohort)
	pred, err := a.client.Predict(ctx, features, p.Costs.Total())
	if err != nil {
		log.Printf("[predictor] unavailable: %v", err)
		return Unavailable("predictor unavailable")
	}

	return Diagnosis{
		Available:  true,
		Prediction: pred,
		Gaps: &Gaps{
			Rate:      p.NightlyRate - pred.PredictedRate,
			Occupancy: p.Occupancy - pred.PredictedOccupancy,
			RevPAR:    RevPARGap(p, pred),
		},
	}
}

// RevPARGap is the reported-minus-predicted revenue per available night.
func RevPARGap(p listing.HostProfile, pred *Prediction) float64 {
	return p.NightlyRate*p.Occupancy - pred.PredictedRevPAR
}
