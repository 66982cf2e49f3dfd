package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

const defaultTimeout = 10 * time.Second

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient reads overview metrics from the analytics REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the analytics API. The default transport times out
// after ten seconds.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("analytics: parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchOverview calls GET {base}/analytics/overview?layout={key}. The response is a JSON
// object keyed by metric name; numbers decode as float64.
func (c *HTTPClient) FetchOverview(ctx context.Context, layoutKey string) (dashboard.WidgetData, error) {
	query := url.Values{}
	if layoutKey != "" {
		query.Set("layout", layoutKey)
	}
	endpoint := c.baseURL + "/analytics/overview"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("analytics: decode response: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return dashboard.WidgetData(data), nil
}
