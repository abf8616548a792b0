package diagnosis

import "github.com/hostlens/revpar-advisor/internal/listing"

// Stage is a host's operating tier. Exactly one stage matches any profile.
type Stage string

const (
	StagePremium Stage = "premium"
	StageStable  Stage = "stable"
	StageNew     Stage = "new"
)

// Premium/Stable qualification thresholds.
const (
	premiumMinRating  = 4.8
	premiumMinReviews = 50
	stableMinRating   = 4.5
	stableMinReviews  = 10

	// New hosts are advised to undercut the peer p25, but never below
	// break-even.
	newEntryDiscount = 0.85
)

// PriceBand is a recommended nightly-rate range in KRW.
type PriceBand struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// StageResult is the classification outcome plus its advisory price band.
type StageResult struct {
	Stage Stage     `json:"stage"`
	Label string    `json:"label"`
	Band  PriceBand `json:"band"`
}

// ClassifyStage maps review count, rating, and superhost status to one of
// the three stages, first match wins. The price band is drawn from the peer
// rate percentiles; for new hosts the floor also respects break-even when it
// is defined.
func ClassifyStage(p listing.HostProfile, rateP25, rateMedian, rateP75, breakEven float64, breakEvenDefined bool) StageResult {
	switch {
	case p.Superhost && p.Rating >= premiumMinRating && p.ReviewCount >= premiumMinReviews:
		return StageResult{
			Stage: StagePremium,
			Label: "Premium host",
			Band:  PriceBand{Low: rateMedian, High: rateP75},
		}
	case p.ReviewCount >= stableMinReviews && p.Rating >= stableMinRating:
		return StageResult{
			Stage: StageStable,
			Label: "Stable host",
			Band:  PriceBand{Low: rateP25, High: rateMedian},
		}
	default:
		low := rateP25 * newEntryDiscount
		if breakEvenDefined && breakEven > low {
			low = breakEven
		}
		return StageResult{
			Stage: StageNew,
			Label: "New host",
			Band:  PriceBand{Low: low, High: rateP25},
		}
	}
}
