package models

type ViewMode string

const (
	ViewModeDriver ViewMode = "driver"
	ViewModeAdmin  ViewMode = "admin"
)

// ViewState is the UI-only state of a single dashboard viewer.
// Empty ids mean nothing is selected.
type ViewState struct {
	Mode                      ViewMode `json:"mode"`
	SelectedHospitalID        string   `json:"selected_hospital_id,omitempty"`
	SelectedAmbulanceID       string   `json:"selected_ambulance_id,omitempty"`
	OpenInfoWindowAmbulanceID string   `json:"open_info_window_ambulance_id,omitempty"`
}

type Stats struct {
	ActiveAmbulances int `json:"active_ambulances"`
	TotalAmbulances  int `json:"total_ambulances"`
	TotalBeds        int `json:"total_beds"`
	// AvgResponseTimeMinutes is not derived from any data yet and is always nil.
	AvgResponseTimeMinutes *float64 `json:"avg_response_time_minutes"`
}
