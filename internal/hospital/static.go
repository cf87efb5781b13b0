package hospital

import (
	"context"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

// StaticLoader serves the built-in Coimbatore directory. It never fails.
type StaticLoader struct{}

func (StaticLoader) Load(ctx context.Context) ([]models.Hospital, error) {
	return DefaultHospitals(), nil
}

func DefaultHospitals() []models.Hospital {
	return []models.Hospital{
		{
			ID:          "1",
			Name:        "Kovai Medical Center",
			Location:    models.Coordinate{Lat: 11.0329, Lng: 76.9728},
			Distance:    "2.5 km",
			ETA:         "5 mins",
			Beds:        45,
			Specialties: []string{"Emergency", "Trauma", "Cardiac"},
		},
		{
			ID:          "2",
			Name:        "PSG Hospitals",
			Location:    models.Coordinate{Lat: 11.0243, Lng: 76.9398},
			Distance:    "3.2 km",
			ETA:         "7 mins",
			Beds:        32,
			Specialties: []string{"Emergency", "Neurology"},
		},
		{
			ID:          "3",
			Name:        "Sri Ramakrishna Hospital",
			Location:    models.Coordinate{Lat: 11.0068, Lng: 76.9758},
			Distance:    "1.8 km",
			ETA:         "4 mins",
			Beds:        18,
			Specialties: []string{"Emergency", "Pediatric"},
		},
		{
			ID:          "4",
			Name:        "G. Kuppuswamy Naidu Memorial Hospital",
			Location:    models.Coordinate{Lat: 11.0118, Lng: 76.9658},
			Distance:    "2.1 km",
			ETA:         "6 mins",
			Beds:        27,
			Specialties: []string{"Emergency", "Burns", "ICU"},
		},
	}
}
