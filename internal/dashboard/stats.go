package dashboard

import "github.com/mr1hm/go-ambulance-dashboard/internal/models"

// ComputeStats derives the admin statistics from the current lists.
func ComputeStats(ambulances []models.Ambulance, hospitals []models.Hospital) models.Stats {
	s := models.Stats{TotalAmbulances: len(ambulances)}
	for _, a := range ambulances {
		if a.Status == models.AmbulanceStatusActive {
			s.ActiveAmbulances++
		}
	}
	for _, h := range hospitals {
		s.TotalBeds += h.Beds
	}
	// TODO: derive AvgResponseTimeMinutes once dispatch history is recorded.
	return s
}
