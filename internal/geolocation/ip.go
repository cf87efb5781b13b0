package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

// ipLookupResponse matches the ip-api.com JSON body.
type ipLookupResponse struct {
	Status  string  `json:"status"` // "success" or "fail"
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator approximates the host position from its public IP address.
type IPLocator struct {
	url    string
	client *http.Client
}

func NewIPLocator(url string, timeout time.Duration) *IPLocator {
	return &IPLocator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (l *IPLocator) Locate(ctx context.Context) (models.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.Coordinate{}, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if data.Status != "success" {
		return models.Coordinate{}, fmt.Errorf("%w: %s", ErrUnavailable, data.Message)
	}

	return models.Coordinate{Lat: data.Lat, Lng: data.Lon}, nil
}
