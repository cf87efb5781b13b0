// Package fleet keeps the live ambulance list in sync with the realtime feed.
package fleet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mr1hm/go-ambulance-dashboard/internal/feed"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type State string

const (
	StateConnecting  State = "connecting"
	StateLive        State = "live"
	StateEmpty       State = "empty"       // feed reachable but holds no data, fallback fleet shown
	StateUnavailable State = "unavailable" // feed unreachable, no ambulances shown
)

// Update is one applied snapshot as pushed to live clients. DroppedRecords
// counts feed records rejected by validation, so a live feed of only invalid
// records does not look like an empty one.
type Update struct {
	State          State              `json:"state"`
	Ambulances     []models.Ambulance `json:"ambulances"`
	DroppedRecords int                `json:"dropped_records"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Subscriber owns the single subscription to the fleet feed. Each snapshot
// replaces the whole ambulance list.
type Subscriber struct {
	source      feed.Source
	limiter     *rate.Limiter
	broadcaster *Broadcaster
	now         func() time.Time

	mu         sync.RWMutex
	ambulances []models.Ambulance
	dropped    int
	state      State
	updatedAt  time.Time
	stopped    bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubscriber takes the feed client explicitly so tests can pass a fake.
// reconnect bounds how often a lost connection is re-established.
func NewSubscriber(source feed.Source, reconnect time.Duration, broadcaster *Broadcaster) *Subscriber {
	return &Subscriber{
		source:      source,
		limiter:     rate.NewLimiter(rate.Every(reconnect), 1),
		broadcaster: broadcaster,
		now:         time.Now,
		state:       StateConnecting,
		ambulances:  []models.Ambulance{},
	}
}

func (s *Subscriber) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Subscriber) run(ctx context.Context) {
	defer s.wg.Done()
	slog.Info("fleet subscriber starting")

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			slog.Info("fleet subscriber shutting down")
			return
		}

		err := s.source.Stream(ctx, func(snap feed.Snapshot) {
			s.apply(snap)
		})
		if ctx.Err() != nil {
			slog.Info("fleet subscriber shutting down")
			return
		}

		slog.Warn("fleet feed unavailable", "error", err)
		s.markUnavailable()
	}
}

func (s *Subscriber) apply(snap feed.Snapshot) {
	var (
		ambulances []models.Ambulance
		dropped    int
		state      State
	)
	if len(snap) == 0 {
		ambulances = FallbackFleet()
		state = StateEmpty
	} else {
		ambulances, dropped = Normalize(snap)
		state = StateLive
	}
	s.set(ambulances, dropped, state)
	slog.Debug("fleet snapshot applied", "state", state, "count", len(ambulances), "dropped", dropped)
}

func (s *Subscriber) markUnavailable() {
	s.set([]models.Ambulance{}, 0, StateUnavailable)
}

func (s *Subscriber) set(ambulances []models.Ambulance, dropped int, state State) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.ambulances = ambulances
	s.dropped = dropped
	s.state = state
	s.updatedAt = s.now()
	u := s.snapshotLocked()
	s.mu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(u)
	}
}

// Stop releases the subscription. No snapshot is applied after Stop returns.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	slog.Info("fleet subscriber stopped")
}

// Ambulances returns a copy of the current list.
func (s *Subscriber) Ambulances() []models.Ambulance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ambulance, len(s.ambulances))
	copy(out, s.ambulances)
	return out
}

func (s *Subscriber) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Subscriber) Current() Update {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Subscriber) snapshotLocked() Update {
	out := make([]models.Ambulance, len(s.ambulances))
	copy(out, s.ambulances)
	return Update{
		State:          s.state,
		Ambulances:     out,
		DroppedRecords: s.dropped,
		UpdatedAt:      s.updatedAt,
	}
}
