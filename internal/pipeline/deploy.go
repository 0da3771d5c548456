package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultRenderBaseURL = "https://api.render.com"

// RenderDeployer triggers deploys through the Render API.
type RenderDeployer struct {
	baseURL   string
	serviceID string
	apiKey    string
	client    *http.Client
}

// NewRenderDeployer builds a deployer for one Render service.
// baseURL is overridable for tests; empty means the public API.
func NewRenderDeployer(baseURL, serviceID, apiKey string) *RenderDeployer {
	if baseURL == "" {
		baseURL = defaultRenderBaseURL
	}
	return &RenderDeployer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		serviceID: serviceID,
		apiKey:    apiKey,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Deploy describes a deploy created via the Render API.
type Deploy struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Trigger creates a new deploy for the configured service and returns it.
func (d *RenderDeployer) Trigger(ctx context.Context) (*Deploy, error) {
	if d.serviceID == "" {
		return nil, fmt.Errorf("render service id is required")
	}
	if d.apiKey == "" {
		return nil, fmt.Errorf("render api key is required")
	}

	url := fmt.Sprintf("%s/v1/services/%s/deploys", d.baseURL, d.serviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return nil, fmt.Errorf("build deploy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trigger deploy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("render api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var dep Deploy
	if err := json.NewDecoder(resp.Body).Decode(&dep); err != nil {
		return nil, fmt.Errorf("decode deploy response: %w", err)
	}
	return &dep, nil
}
