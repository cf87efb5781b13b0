// Package hospital loads the hospital directory shown in the driver sidebar
// and on the admin map.
package hospital

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type Loader interface {
	Load(ctx context.Context) ([]models.Hospital, error)
}

type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// Directory populates its hospital list exactly once. Later Load calls
// return the outcome of the first one.
type Directory struct {
	loader Loader
	once   sync.Once

	mu        sync.RWMutex
	state     State
	hospitals []models.Hospital
	err       error
}

func NewDirectory(loader Loader) *Directory {
	return &Directory{
		loader: loader,
		state:  StateLoading,
	}
}

func (d *Directory) Load(ctx context.Context) error {
	d.once.Do(func() {
		hospitals, err := d.loader.Load(ctx)
		if err == nil {
			err = validate(hospitals)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if err != nil {
			d.state = StateFailed
			d.err = fmt.Errorf("error loading hospital directory: %w", err)
			slog.Error("hospital directory load failed", "error", err)
			return
		}
		d.state = StateLoaded
		d.hospitals = hospitals
		slog.Info("hospital directory loaded", "count", len(hospitals))
	})

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

func (d *Directory) State() (State, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state, d.err
}

// Hospitals returns a copy of the loaded list; it is empty unless the state is loaded.
func (d *Directory) Hospitals() []models.Hospital {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Hospital, len(d.hospitals))
	copy(out, d.hospitals)
	return out
}

func (d *Directory) Get(id string) (models.Hospital, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return models.FindHospital(d.hospitals, id)
}

func validate(hospitals []models.Hospital) error {
	seen := make(map[string]struct{}, len(hospitals))
	for _, h := range hospitals {
		if h.ID == "" {
			return fmt.Errorf("hospital %q has no id", h.Name)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("duplicate hospital id %q", h.ID)
		}
		seen[h.ID] = struct{}{}
		if h.Beds < 0 {
			return fmt.Errorf("hospital %s: negative bed count %d", h.ID, h.Beds)
		}
		if err := h.Location.Validate(); err != nil {
			return fmt.Errorf("hospital %s: %w", h.ID, err)
		}
	}
	return nil
}
