package finlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"

	"finlab-mcp/internal/frame"
)

// DefaultBaseURL is the FinLab data service endpoint.
const DefaultBaseURL = "https://ai.finlab.tw/api/v1"

const defaultTimeout = 60 * time.Second

// Client is the HTTP implementation of Engine. It authenticates every
// request with the bearer token from FINLAB_API_TOKEN.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

var _ Engine = (*Client)(nil)

// New creates a Client for the given base URL, reading the API token from
// the environment. Returns ErrTokenMissing when the token is unset, which
// the caller uses to gate tool dispatch.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, ErrTokenMissing
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// GetData fetches one dataset column as a date-by-stock frame.
func (c *Client) GetData(ctx context.Context, table, column string) (*frame.Frame, error) {
	dataset := table + ":" + column
	c.logger.Debug().Str("dataset", dataset).Msg("finlab get data")

	endpoint := c.baseURL + "/data?dataset=" + url.QueryEscape(dataset)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	f, err := frame.Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("finlab: decoding dataset %s: %w", dataset, err)
	}
	return f, nil
}

// Indicator computes a technical indicator on the engine side.
func (c *Client) Indicator(ctx context.Context, name string, params map[string]any) ([]*frame.Frame, error) {
	c.logger.Debug().Str("indicator", name).Msg("finlab indicator")

	payload := map[string]any{"name": name}
	if len(params) > 0 {
		payload["params"] = params
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/indicator", payload)
	if err != nil {
		return nil, err
	}

	var out struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("finlab: decoding indicator %s response: %w", name, err)
	}
	if len(out.Results) == 0 {
		return nil, fmt.Errorf("finlab: indicator %s returned no results", name)
	}

	frames := make([]*frame.Frame, 0, len(out.Results))
	for i, raw := range out.Results {
		f, err := frame.Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("finlab: decoding indicator %s result %d: %w", name, i+1, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// RunBacktest simulates the position matrix and returns the performance
// report. Optional overrides are included in the payload only when set.
func (c *Client) RunBacktest(ctx context.Context, req BacktestRequest) (*Report, error) {
	c.logger.Debug().Str("resample", req.Resample).Msg("finlab backtest")

	payload := map[string]any{
		"position": req.Position,
		"resample": req.Resample,
		"upload":   false,
	}
	if req.StopLoss != nil {
		payload["stop_loss"] = *req.StopLoss
	}
	if req.TakeProfit != nil {
		payload["take_profit"] = *req.TakeProfit
	}
	if req.FeeRatio != nil {
		payload["fee_ratio"] = *req.FeeRatio
	}
	if req.TaxRatio != nil {
		payload["tax_ratio"] = *req.TaxRatio
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/sim", payload)
	if err != nil {
		return nil, err
	}

	var out struct {
		Stats map[string]any `json:"stats"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("finlab: decoding backtest response: %w", err)
	}
	return ReportFromStats(out.Stats), nil
}

// do sends one request and returns the response body, or an error for
// transport failures and non-2xx statuses.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("finlab: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("finlab: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finlab: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finlab: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("finlab: %s returned %s: %s", endpoint, resp.Status, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
