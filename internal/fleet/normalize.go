package fleet

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mr1hm/go-ambulance-dashboard/internal/feed"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type ambulanceRecord struct {
	Location *models.Coordinate `json:"location"`
	Status   string             `json:"status"`
}

// Normalize turns a feed snapshot into ambulances sorted by id, using each
// key as the ambulance id. Records that fail validation are dropped and
// counted.
func Normalize(snap feed.Snapshot) (ambulances []models.Ambulance, dropped int) {
	ambulances = make([]models.Ambulance, 0, len(snap))
	for id, raw := range snap {
		a, err := parseAmbulance(id, raw)
		if err != nil {
			slog.Warn("dropping invalid ambulance record", "id", id, "error", err)
			dropped++
			continue
		}
		ambulances = append(ambulances, a)
	}

	sort.Slice(ambulances, func(i, j int) bool {
		return ambulances[i].ID < ambulances[j].ID
	})
	return ambulances, dropped
}

func parseAmbulance(id string, raw json.RawMessage) (models.Ambulance, error) {
	var rec ambulanceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Ambulance{}, fmt.Errorf("error decoding record: %w", err)
	}
	if rec.Location == nil {
		return models.Ambulance{}, fmt.Errorf("missing location")
	}
	if err := rec.Location.Validate(); err != nil {
		return models.Ambulance{}, err
	}
	status, err := models.ParseAmbulanceStatus(rec.Status)
	if err != nil {
		return models.Ambulance{}, err
	}

	return models.Ambulance{
		ID:       id,
		Location: *rec.Location,
		Status:   status,
	}, nil
}

// FallbackFleet is shown when the feed reports no data.
func FallbackFleet() []models.Ambulance {
	return []models.Ambulance{
		{ID: "amb1", Location: models.Coordinate{Lat: 11.0268, Lng: 76.9458}, Status: models.AmbulanceStatusActive},
		{ID: "amb2", Location: models.Coordinate{Lat: 11.0368, Lng: 76.9658}, Status: models.AmbulanceStatusEnRoute},
		{ID: "amb3", Location: models.Coordinate{Lat: 11.0068, Lng: 76.9358}, Status: models.AmbulanceStatusIdle},
	}
}
