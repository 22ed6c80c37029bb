package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single prediction round trip.
const DefaultTimeout = 10 * time.Second

// Client is a Predictor talking to a remote prediction server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient constructs a Client for the server at baseURL.
func NewClient(log *zap.Logger, baseURL string, timeout time.Duration) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// PredictMove posts the request to /predict_move.
func (c *Client) PredictMove(ctx context.Context, req PredictMoveRequest) (*PredictMoveResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding predict request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict_move", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building predict request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling prediction api: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(httpResp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			errResp.Error = http.StatusText(httpResp.StatusCode)
		}
		c.log.Warn("Prediction api returned an error",
			zap.Int("status", httpResp.StatusCode),
			zap.String("error", errResp.Error),
			zap.String("requestID", requestID))
		return nil, &APIError{StatusCode: httpResp.StatusCode, Message: errResp.Error, Details: errResp.Details}
	}

	var resp PredictMoveResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding predict response: %w", err)
	}
	return &resp, nil
}
