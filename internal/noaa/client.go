// Package noaa resolves a matched alert's CAP identifier against the NWS
// API for the full advisory text. Enrichment is optional; a lookup renders
// fine from the attribute table alone when the API is unreachable.
package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Alert is the subset of the api.weather.gov alert document we display.
type Alert struct {
	Properties AlertProperties `json:"properties"`
}

type AlertProperties struct {
	Event       string `json:"event"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
	AreaDesc    string `json:"areaDesc"`
	Severity    string `json:"severity"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
	SenderName  string `json:"senderName"`
}

func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Alert fetches the full alert document for a CAP identifier.
func (c *Client) Alert(ctx context.Context, capID string) (*Alert, error) {
	url := fmt.Sprintf("%s/alerts/%s", c.baseURL, capID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	// The NWS API requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var alert Alert
	if err := json.NewDecoder(resp.Body).Decode(&alert); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return &alert, nil
}
