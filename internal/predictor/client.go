package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the external price/occupancy predictor service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a predictor client. timeout bounds the whole call; the
// predictor is never retried.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// predictRequest is the wire request to the predictor service.
type predictRequest struct {
	Features          FeatureVector `json:"features"`
	MonthlyFixedCosts float64       `json:"monthly_fixed_costs"`
}

// Prediction is the predictor's output for one listing.
type Prediction struct {
	PredictedRate      float64 `json:"predicted_rate"`
	PredictedOccupancy float64 `json:"predicted_occupancy"`
	PredictedRevPAR    float64 `json:"predicted_revpar"`
}

// Predict invokes the external model. Every transport, status, or schema
// problem is returned as an error for the adapter to convert into an
// unavailable result.
func (c *Client) Predict(ctx context.Context, features FeatureVector, monthlyCosts float64) (*Prediction, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("predictor base URL not configured")
	}

	body, err := json.Marshal(predictRequest{
		Features:          features,
		MonthlyFixedCosts: monthlyCosts,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling predictor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("predictor returned %d: %s", resp.StatusCode, string(raw))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("decoding predictor response: %w", err)
	}
	if pred.PredictedRate < 0 || pred.PredictedOccupancy < 0 || pred.PredictedOccupancy > 1 {
		return nil, fmt.Errorf("predictor response out of range: rate=%.2f occupancy=%.4f",
			pred.PredictedRate, pred.PredictedOccupancy)
	}
	return &pred, nil
}
