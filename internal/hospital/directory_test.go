package hospital

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
	"github.com/mr1hm/go-ambulance-dashboard/internal/repository"
)

type countingLoader struct {
	calls     atomic.Int64
	hospitals []models.Hospital
	err       error
}

func (l *countingLoader) Load(ctx context.Context) ([]models.Hospital, error) {
	l.calls.Add(1)
	return l.hospitals, l.err
}

func TestDirectory_StaticTotals(t *testing.T) {
	d := NewDirectory(StaticLoader{})
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	hospitals := d.Hospitals()
	if len(hospitals) != 4 {
		t.Fatalf("expected 4 hospitals, got %d", len(hospitals))
	}

	beds := 0
	for _, h := range hospitals {
		beds += h.Beds
	}
	if beds != 122 {
		t.Errorf("expected 122 beds, got %d", beds)
	}

	state, err := d.State()
	if state != StateLoaded || err != nil {
		t.Errorf("expected loaded/nil, got %s/%v", state, err)
	}
}

func TestDirectory_InitialStateLoading(t *testing.T) {
	d := NewDirectory(StaticLoader{})
	state, _ := d.State()
	if state != StateLoading {
		t.Errorf("expected loading before Load, got %s", state)
	}
	if len(d.Hospitals()) != 0 {
		t.Error("expected no hospitals before Load")
	}
}

func TestDirectory_LoadsExactlyOnce(t *testing.T) {
	loader := &countingLoader{hospitals: DefaultHospitals()}
	d := NewDirectory(loader)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Load(context.Background())
		}()
	}
	wg.Wait()

	if loader.calls.Load() != 1 {
		t.Errorf("expected 1 loader call, got %d", loader.calls.Load())
	}
}

func TestDirectory_FailedState(t *testing.T) {
	loader := &countingLoader{err: errors.New("directory service down")}
	d := NewDirectory(loader)

	if err := d.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}

	state, err := d.State()
	if state != StateFailed {
		t.Errorf("expected failed state, got %s", state)
	}
	if err == nil {
		t.Error("expected stored error")
	}
	if len(d.Hospitals()) != 0 {
		t.Error("expected empty list after failed load")
	}

	// A failed directory is not retried
	d.Load(context.Background())
	if loader.calls.Load() != 1 {
		t.Errorf("expected 1 loader call, got %d", loader.calls.Load())
	}
}

func TestDirectory_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name      string
		hospitals []models.Hospital
	}{
		{"duplicate id", []models.Hospital{{ID: "1"}, {ID: "1"}}},
		{"missing id", []models.Hospital{{Name: "Anonymous"}}},
		{"negative beds", []models.Hospital{{ID: "1", Beds: -3}}},
		{"bad location", []models.Hospital{{ID: "1", Location: models.Coordinate{Lat: 0, Lng: 200}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirectory(&countingLoader{hospitals: tt.hospitals})
			if err := d.Load(context.Background()); err == nil {
				t.Error("expected validation error")
			}
			if state, _ := d.State(); state != StateFailed {
				t.Errorf("expected failed state, got %s", state)
			}
		})
	}
}

func TestDirectory_GetUnknownID(t *testing.T) {
	d := NewDirectory(StaticLoader{})
	d.Load(context.Background())

	if _, ok := d.Get("99"); ok {
		t.Error("expected unknown id to be absent")
	}
	h, ok := d.Get("2")
	if !ok || h.Name != "PSG Hospitals" {
		t.Errorf("expected PSG Hospitals, got %+v", h)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
hospitals:
  - id: "1"
    name: Kovai Medical Center
    location: {lat: 11.0329, lng: 76.9728}
    distance: 2.5 km
    eta: 5 mins
    beds: 45
    specialties: [Emergency, Trauma, Cardiac]
  - id: "2"
    name: PSG Hospitals
    location: {lat: 11.0243, lng: 76.9398}
    beds: 32
    specialties: [Emergency]
`)

	hospitals, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if len(hospitals) != 2 {
		t.Fatalf("expected 2 hospitals, got %d", len(hospitals))
	}
	if hospitals[0].Distance != "2.5 km" || hospitals[0].Location.Lat != 11.0329 {
		t.Errorf("unexpected first hospital: %+v", hospitals[0])
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":         "hospitals: []\n",
		"missing name":  "hospitals:\n  - id: \"1\"\n    beds: 3\n",
		"negative beds": "hospitals:\n  - id: \"1\"\n    name: A\n    beds: -1\n",
		"bad latitude":  "hospitals:\n  - id: \"1\"\n    name: A\n    location: {lat: 91, lng: 0}\n",
		"not yaml":      "hospitals: [",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestYAMLLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hospitals.yml")
	content := "hospitals:\n  - id: a\n    name: Alpha\n    beds: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	d := NewDirectory(YAMLLoader{Path: path})
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := d.Hospitals(); len(got) != 1 || got[0].Beds != 7 {
		t.Errorf("unexpected hospitals: %+v", got)
	}

	missing := NewDirectory(YAMLLoader{Path: filepath.Join(t.TempDir(), "nope.yml")})
	if err := missing.Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRepositoryLoader(t *testing.T) {
	db, err := repository.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.SeedHospitals(ctx, DefaultHospitals()); err != nil {
		t.Fatalf("SeedHospitals failed: %v", err)
	}

	d := NewDirectory(RepositoryLoader{Repo: db})
	if err := d.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	hospitals := d.Hospitals()
	if len(hospitals) != 4 {
		t.Fatalf("expected 4 hospitals, got %d", len(hospitals))
	}
	if hospitals[3].Name != "G. Kuppuswamy Naidu Memorial Hospital" {
		t.Errorf("expected insertion order to be kept, got %s last", hospitals[3].Name)
	}
}
