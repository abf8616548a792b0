package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostlens/revpar-advisor/internal/listing"
)

func predictorStub(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestDiagnoseSuccess(t *testing.T) {
	client := predictorStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var req struct {
			Features          FeatureVector `json:"features"`
			MonthlyFixedCosts float64       `json:"monthly_fixed_costs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Features.DistrictCluster)
		assert.InDelta(t, 540000, req.MonthlyFixedCosts, 0.01)

		json.NewEncoder(w).Encode(Prediction{
			PredictedRate:      95000,
			PredictedOccupancy: 0.48,
			PredictedRevPAR:    45600,
		})
	})

	p := listing.HostProfile{
		NightlyRate: 100000,
		Occupancy:   0.40,
		Costs:       listing.MonthlyCosts{Management: 540000},
	}
	agg := listing.DistrictAggregate{Cluster: 2}

	d := NewAdapter(client).Diagnose(context.Background(), p, agg, nil)
	require.True(t, d.Available)
	require.NotNil(t, d.Prediction)
	require.NotNil(t, d.Gaps)

	assert.InDelta(t, 5000, d.Gaps.Rate, 0.01)
	assert.InDelta(t, -0.08, d.Gaps.Occupancy, 1e-9)
	assert.InDelta(t, 100000*0.40-45600, d.Gaps.RevPAR, 0.01)
}

func TestDiagnoseServerError(t *testing.T) {
	client := predictorStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	d := NewAdapter(client).Diagnose(context.Background(), listing.HostProfile{}, listing.DistrictAggregate{}, nil)
	assert.False(t, d.Available)
	assert.NotEmpty(t, d.Reason)
	assert.Nil(t, d.Prediction)
}

func TestDiagnoseMalformedResponse(t *testing.T) {
	client := predictorStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})

	d := NewAdapter(client).Diagnose(context.Background(), listing.HostProfile{}, listing.DistrictAggregate{}, nil)
	assert.False(t, d.Available)
}

func TestDiagnoseOutOfRangePrediction(t *testing.T) {
	client := predictorStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Prediction{PredictedRate: 90000, PredictedOccupancy: 1.7})
	})

	d := NewAdapter(client).Diagnose(context.Background(), listing.HostProfile{}, listing.DistrictAggregate{}, nil)
	assert.False(t, d.Available, "occupancy above 1 must be rejected")
}

func TestDiagnoseNilAdapter(t *testing.T) {
	var a *Adapter
	d := a.Diagnose(context.Background(), listing.HostProfile{}, listing.DistrictAggregate{}, nil)
	assert.False(t, d.Available)
	assert.Equal(t, "predictor not configured", d.Reason)

	d = NewAdapter(nil).Diagnose(context.Background(), listing.HostProfile{}, listing.DistrictAggregate{}, nil)
	assert.False(t, d.Available)
}

func TestPredictUnreachableHost(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := client.Predict(context.Background(), FeatureVector{}, 0)
	assert.Error(t, err)
}
