// Package dashboard holds the per-viewer view state and assembles the data
// model the dashboard UI renders.
package dashboard

import (
	"sync"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

// Controller owns one viewer's ViewState. It is only mutated through its
// methods, which the UI triggers on clicks.
type Controller struct {
	mu    sync.Mutex
	state models.ViewState
}

func NewController() *Controller {
	return &Controller{
		state: models.ViewState{Mode: models.ViewModeDriver},
	}
}

// ToggleMode flips between the driver and admin views and returns the new mode.
func (c *Controller) ToggleMode() models.ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode == models.ViewModeAdmin {
		c.state.Mode = models.ViewModeDriver
	} else {
		c.state.Mode = models.ViewModeAdmin
	}
	return c.state.Mode
}

// SelectHospital does not check that id exists; a stale selection simply
// resolves to nothing.
func (c *Controller) SelectHospital(id string) {
	c.mu.Lock()
	c.state.SelectedHospitalID = id
	c.mu.Unlock()
}

func (c *Controller) SelectAmbulance(id string) {
	c.mu.Lock()
	c.state.SelectedAmbulanceID = id
	c.mu.Unlock()
}

// OpenInfoWindow replaces any window already open.
func (c *Controller) OpenInfoWindow(id string) {
	c.mu.Lock()
	c.state.OpenInfoWindowAmbulanceID = id
	c.mu.Unlock()
}

func (c *Controller) CloseInfoWindow() {
	c.mu.Lock()
	c.state.OpenInfoWindowAmbulanceID = ""
	c.mu.Unlock()
}

func (c *Controller) State() models.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
