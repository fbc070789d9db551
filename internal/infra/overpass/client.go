package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client queries the Overpass API for OpenStreetMap nodes around a point.
// Overpass QL is sent as an url-encoded "data" form field.
type Client struct {
	endpoint string
	http     *http.Client
}

type Node struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type queryResponse struct {
	Elements []Node `json:"elements"`
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = "https://overpass-api.de/api/interpreter"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// NodesAround runs one union query for all the given tag selectors, e.g.
// `node["leisure"="fitness_centre"]`, constrained to radiusM around the
// point.
func (c *Client) NodesAround(ctx context.Context, selectors []string, lat, lon float64, radiusM int) ([]Node, error) {
	if len(selectors) == 0 {
		return nil, fmt.Errorf("at least one selector is required")
	}
	if radiusM <= 0 {
		radiusM = 5000
	}

	var q strings.Builder
	q.WriteString("[out:json];(")
	for _, sel := range selectors {
		fmt.Fprintf(&q, "%s(around:%d,%f,%f);", sel, radiusM, lat, lon)
	}
	q.WriteString(");out body;")

	form := url.Values{"data": {q.String()}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query overpass: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	return decoded.Elements, nil
}
