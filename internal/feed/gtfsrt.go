package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

// GTFSRTSource polls a GTFS-Realtime VehiclePositions feed. Each poll is a
// complete fleet snapshot keyed by vehicle id.
type GTFSRTSource struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
}

type vehicleRecord struct {
	Location models.Coordinate `json:"location"`
	Status   string            `json:"status"`
}

func NewGTFSRTSource(url string, interval, timeout time.Duration) *GTFSRTSource {
	return &GTFSRTSource{
		url:        url,
		interval:   interval,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *GTFSRTSource) Stream(ctx context.Context, fn func(Snapshot)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		snap, err := s.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(snap)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *GTFSRTSource) Fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtfs-rt http status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading gtfs-rt body: %w", err)
	}

	var feed gtfs.FeedMessage
	if err := proto.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("error decoding gtfs-rt feed: %w", err)
	}
	return snapshotFromFeed(&feed), nil
}

func snapshotFromFeed(feed *gtfs.FeedMessage) Snapshot {
	snap := make(Snapshot, len(feed.GetEntity()))
	for _, ent := range feed.GetEntity() {
		vp := ent.GetVehicle()
		if vp == nil || vp.GetPosition() == nil {
			continue
		}
		id := vp.GetVehicle().GetId()
		if id == "" {
			id = ent.GetId()
		}
		if id == "" {
			continue
		}

		rec := vehicleRecord{
			Location: models.Coordinate{
				Lat: float64(vp.GetPosition().GetLatitude()),
				Lng: float64(vp.GetPosition().GetLongitude()),
			},
			Status: vehicleStatus(vp),
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			slog.Warn("dropping gtfs-rt vehicle", "id", id, "error", err)
			continue
		}
		snap[id] = raw
	}
	if len(snap) == 0 {
		return nil
	}
	return snap
}

// vehicleStatus prefers a status carried in the vehicle label, then falls
// back to the stop status.
func vehicleStatus(vp *gtfs.VehiclePosition) string {
	if st, err := models.ParseAmbulanceStatus(vp.GetVehicle().GetLabel()); err == nil {
		return string(st)
	}
	switch vp.GetCurrentStatus() {
	case gtfs.VehiclePosition_STOPPED_AT:
		return string(models.AmbulanceStatusIdle)
	default:
		return string(models.AmbulanceStatusEnRoute)
	}
}
