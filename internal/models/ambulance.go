package models

import "fmt"

type AmbulanceStatus string

const (
	AmbulanceStatusActive  AmbulanceStatus = "active"
	AmbulanceStatusEnRoute AmbulanceStatus = "en-route"
	AmbulanceStatusIdle    AmbulanceStatus = "idle"
)

func ParseAmbulanceStatus(s string) (AmbulanceStatus, error) {
	switch st := AmbulanceStatus(s); st {
	case AmbulanceStatusActive, AmbulanceStatusEnRoute, AmbulanceStatusIdle:
		return st, nil
	default:
		return "", fmt.Errorf("unknown ambulance status: %q", s)
	}
}

// Color is the marker fill used by the map for this status.
func (s AmbulanceStatus) Color() string {
	switch s {
	case AmbulanceStatusActive:
		return "#ef4444"
	case AmbulanceStatusEnRoute:
		return "#f59e0b"
	default:
		return "#6b7280"
	}
}

func (s AmbulanceStatus) Caption() string {
	switch s {
	case AmbulanceStatusActive:
		return "Emergency in progress"
	case AmbulanceStatusEnRoute:
		return "En route to hospital"
	default:
		return "Available for dispatch"
	}
}

type Ambulance struct {
	ID       string          `json:"id"`
	Location Coordinate      `json:"location"`
	Status   AmbulanceStatus `json:"status"`
}

func FindAmbulance(ambulances []Ambulance, id string) (Ambulance, bool) {
	for _, a := range ambulances {
		if a.ID == id {
			return a, true
		}
	}
	return Ambulance{}, false
}
