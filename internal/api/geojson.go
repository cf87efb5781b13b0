package api

import (
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

const hospitalMarkerColor = "#0ea5e9"

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func point(c models.Coordinate) Geometry {
	return Geometry{
		Type:        "Point",
		Coordinates: []float64{c.Lng, c.Lat},
	}
}

// toGeoJSON builds the map layer: hospital markers first, then ambulances.
func toGeoJSON(hospitals []models.Hospital, ambulances []models.Ambulance) FeatureCollection {
	features := make([]Feature, 0, len(hospitals)+len(ambulances))

	for _, h := range hospitals {
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: point(h.Location),
			Properties: map[string]any{
				"kind":         "hospital",
				"id":           h.ID,
				"name":         h.Name,
				"beds":         h.Beds,
				"distance":     h.Distance,
				"eta":          h.ETA,
				"specialties":  h.Specialties,
				"marker_color": hospitalMarkerColor,
			},
		})
	}

	for _, a := range ambulances {
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: point(a.Location),
			Properties: map[string]any{
				"kind":         "ambulance",
				"id":           a.ID,
				"status":       a.Status,
				"caption":      a.Status.Caption(),
				"marker_color": a.Status.Color(),
			},
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
