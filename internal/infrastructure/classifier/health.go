package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

// HealthClient probes the backend's health endpoint.
type HealthClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewHealthClient builds a prober for endpoint.
func NewHealthClient(endpoint string, client *http.Client) *HealthClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HealthClient{endpoint: endpoint, httpClient: client}
}

// Probe returns the status field reported by the backend.
func (h *HealthClient) Probe(ctx context.Context) (string, error) {
	if h.endpoint == "" {
		return "", domain.ErrClassifierUnavailable
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", domain.ErrRemoteStatus, resp.Status)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResult, err)
	}
	if body.Status == "" {
		return "", fmt.Errorf("%w: missing status", domain.ErrMalformedResult)
	}
	return body.Status, nil
}

var _ ports.HealthProber = (*HealthClient)(nil)
