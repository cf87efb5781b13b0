// Package geolocation resolves the viewer position the map is centred on.
package geolocation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

var ErrUnavailable = errors.New("geolocation unavailable")

type Locator interface {
	Locate(ctx context.Context) (models.Coordinate, error)
}

// Resolve always returns a coordinate: the located one on success, otherwise
// models.DefaultLocation. It gives up after timeout.
func Resolve(ctx context.Context, l Locator, timeout time.Duration) models.Coordinate {
	if l == nil {
		return models.DefaultLocation
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		c   models.Coordinate
		err error
	}
	done := make(chan result, 1)
	go func() {
		c, err := l.Locate(ctx)
		done <- result{c, err}
	}()

	select {
	case <-ctx.Done():
		slog.Warn("geolocation timed out, using default", "timeout", timeout)
		return models.DefaultLocation
	case r := <-done:
		if r.err != nil {
			slog.Warn("geolocation failed, using default", "error", r.err)
			return models.DefaultLocation
		}
		if err := r.c.Validate(); err != nil {
			slog.Warn("geolocation returned invalid coordinate, using default", "error", err)
			return models.DefaultLocation
		}
		return r.c
	}
}

// StaticLocator reports a fixed, configured position.
type StaticLocator struct {
	Coordinate models.Coordinate
}

func (s StaticLocator) Locate(ctx context.Context) (models.Coordinate, error) {
	return s.Coordinate, nil
}
