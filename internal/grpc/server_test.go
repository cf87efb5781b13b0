package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/mr1hm/go-ambulance-dashboard/internal/dashboard"
	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDashboard struct {
	mu        sync.Mutex
	update    fleet.Update
	hospitals []models.Hospital
}

func (f *fakeDashboard) Fleet() fleet.Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.update
}

func (f *fakeDashboard) Stats() models.Stats {
	return dashboard.ComputeStats(f.Fleet().Ambulances, f.hospitals)
}

func (f *fakeDashboard) Hospital(id string) (models.Hospital, bool) {
	return models.FindHospital(f.hospitals, id)
}

type testEnv struct {
	client      *Client
	broadcaster *fleet.Broadcaster
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	d := &fakeDashboard{
		update: fleet.Update{State: fleet.StateEmpty, Ambulances: fleet.FallbackFleet()},
		hospitals: []models.Hospital{
			{ID: "1", Name: "Kovai Medical Center", Location: models.Coordinate{Lat: 11.0272, Lng: 76.9578}, Beds: 45},
		},
	}
	b := fleet.NewBroadcaster()
	srv := NewServer(d, b)

	lis := bufconn.Listen(1 << 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		b.Close()
		srv.Stop()
		<-done
	})

	return &testEnv{client: NewClient(conn), broadcaster: b}
}

func TestGetFleet(t *testing.T) {
	env := setupTestServer(t)

	u, err := env.client.GetFleet(context.Background())
	if err != nil {
		t.Fatalf("GetFleet failed: %v", err)
	}
	if u.State != fleet.StateEmpty {
		t.Errorf("expected state empty, got %s", u.State)
	}
	if len(u.Ambulances) != 3 || u.Ambulances[1].ID != "amb2" || u.Ambulances[1].Status != models.AmbulanceStatusEnRoute {
		t.Errorf("unexpected ambulances: %+v", u.Ambulances)
	}
	if u.Ambulances[0].Location != (models.Coordinate{Lat: 11.0268, Lng: 76.9458}) {
		t.Errorf("unexpected location: %+v", u.Ambulances[0].Location)
	}
}

func TestGetStats(t *testing.T) {
	env := setupTestServer(t)

	st, err := env.client.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if st.ActiveAmbulances != 1 || st.TotalAmbulances != 3 || st.TotalBeds != 45 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.AvgResponseTimeMinutes != nil {
		t.Error("expected no average response time")
	}
}

func TestGetHospital(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	h, err := env.client.GetHospital(ctx, "1")
	if err != nil {
		t.Fatalf("GetHospital failed: %v", err)
	}
	if h.Name != "Kovai Medical Center" || h.Beds != 45 {
		t.Errorf("unexpected hospital: %+v", h)
	}

	_, err = env.client.GetHospital(ctx, "")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}

	_, err = env.client.GetHospital(ctx, "nonexistent")
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestStreamFleet(t *testing.T) {
	env := setupTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan fleet.Update, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- env.client.StreamFleet(ctx, func(u fleet.Update) error {
			received <- u
			return nil
		})
	}()

	select {
	case u := <-received:
		if len(u.Ambulances) != 3 {
			t.Errorf("expected current fleet first, got %d ambulances", len(u.Ambulances))
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for initial update")
	}

	env.broadcaster.Broadcast(fleet.Update{State: fleet.StateUnavailable, Ambulances: []models.Ambulance{}})

	select {
	case u := <-received:
		if u.State != fleet.StateUnavailable || len(u.Ambulances) != 0 {
			t.Errorf("unexpected update: %+v", u)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for pushed update")
	}

	// closing the broadcaster ends the stream cleanly
	env.broadcaster.Close()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean end of stream, got %v", err)
		}
	case <-ctx.Done():
		t.Fatal("stream did not end")
	}
}

func TestStreamFleet_CallbackErrorStops(t *testing.T) {
	env := setupTestServer(t)
	stop := errors.New("stop")

	err := env.client.StreamFleet(context.Background(), func(u fleet.Update) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected callback error, got %v", err)
	}
}

func TestServiceInfo(t *testing.T) {
	srv := NewServer(&fakeDashboard{}, fleet.NewBroadcaster())
	defer srv.Stop()

	info, ok := srv.grpcServer.GetServiceInfo()[serviceName]
	if !ok {
		t.Fatalf("service %s not registered", serviceName)
	}
	if info.Metadata != nil {
		t.Errorf("expected no proto file metadata, got %v", info.Metadata)
	}

	got := make(map[string]bool)
	for _, m := range info.Methods {
		got[m.Name] = m.IsServerStream
	}
	want := map[string]bool{"GetFleet": false, "GetStats": false, "GetHospital": false, "StreamFleet": true}
	if len(got) != len(want) {
		t.Errorf("expected %d methods, got %v", len(want), got)
	}
	for name, stream := range want {
		if s, ok := got[name]; !ok || s != stream {
			t.Errorf("method %s: registered=%v server stream=%v", name, ok, s)
		}
	}
}
