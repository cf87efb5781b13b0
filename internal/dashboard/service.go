package dashboard

import (
	"time"

	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/hospital"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type FleetReader interface {
	Current() fleet.Update
}

type HospitalDirectory interface {
	Hospitals() []models.Hospital
	Get(id string) (models.Hospital, bool)
	State() (hospital.State, error)
}

// Snapshot is everything the presentation layer reads for one render.
type Snapshot struct {
	Hospitals      []models.Hospital  `json:"hospitals"`
	Ambulances     []models.Ambulance `json:"ambulances"`
	View           models.ViewState   `json:"view"`
	Stats          models.Stats       `json:"stats"`
	Location       models.Coordinate  `json:"location"`
	FeedState      fleet.State        `json:"feed_state"`
	DroppedRecords int                `json:"dropped_records"`
	DirectoryState hospital.State     `json:"directory_state"`
	DirectoryError string             `json:"directory_error,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type Service struct {
	fleet     FleetReader
	directory HospitalDirectory
	location  models.Coordinate
	sessions  *Registry
}

// NewService wires the data sources together. location is the already
// resolved viewer position.
func NewService(f FleetReader, d HospitalDirectory, location models.Coordinate, sessions *Registry) *Service {
	return &Service{
		fleet:     f,
		directory: d,
		location:  location,
		sessions:  sessions,
	}
}

func (s *Service) Controller(viewerID string) *Controller {
	return s.sessions.Controller(viewerID)
}

// Snapshot assembles the render model for a viewer. A valid override replaces
// the resolved location for this response only.
func (s *Service) Snapshot(viewerID string, override *models.Coordinate) Snapshot {
	u := s.fleet.Current()
	hospitals := s.directory.Hospitals()
	dirState, dirErr := s.directory.State()

	snap := Snapshot{
		Hospitals:      hospitals,
		Ambulances:     u.Ambulances,
		View:           s.Controller(viewerID).State(),
		Stats:          ComputeStats(u.Ambulances, hospitals),
		Location:       s.location,
		FeedState:      u.State,
		DroppedRecords: u.DroppedRecords,
		DirectoryState: dirState,
		UpdatedAt:      u.UpdatedAt,
	}
	if dirErr != nil {
		snap.DirectoryError = dirErr.Error()
	}
	if override != nil && override.Validate() == nil {
		snap.Location = *override
	}
	return snap
}

func (s *Service) Location() models.Coordinate {
	return s.location
}

func (s *Service) Hospitals() []models.Hospital {
	return s.directory.Hospitals()
}

func (s *Service) Hospital(id string) (models.Hospital, bool) {
	return s.directory.Get(id)
}

func (s *Service) DirectoryState() (hospital.State, error) {
	return s.directory.State()
}

func (s *Service) Fleet() fleet.Update {
	return s.fleet.Current()
}

func (s *Service) Stats() models.Stats {
	return ComputeStats(s.fleet.Current().Ambulances, s.directory.Hospitals())
}

// SelectedHospital resolves the viewer's selection against the directory.
// ok is false when nothing is selected or the id no longer exists.
func (s *Service) SelectedHospital(viewerID string) (models.Hospital, bool) {
	id := s.Controller(viewerID).State().SelectedHospitalID
	if id == "" {
		return models.Hospital{}, false
	}
	return s.directory.Get(id)
}

// InfoWindow returns the ambulance whose info window is open, if it is still
// part of the fleet.
func (s *Service) InfoWindow(viewerID string) (models.Ambulance, bool) {
	id := s.Controller(viewerID).State().OpenInfoWindowAmbulanceID
	if id == "" {
		return models.Ambulance{}, false
	}
	return models.FindAmbulance(s.fleet.Current().Ambulances, id)
}
