package fleet

import (
	"sync"
	"testing"
	"time"
)

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(id)
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	// Channel should be closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestBroadcaster_Broadcast(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	b.Broadcast(Update{State: StateEmpty, Ambulances: FallbackFleet()})

	select {
	case received := <-ch:
		if received.State != StateEmpty || len(received.Ambulances) != 3 {
			t.Errorf("unexpected update: %+v", received)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for broadcast")
	}
}

func TestBroadcaster_SlowSubscriberKeepsLatest(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	for i := 0; i < 40; i++ {
		b.Broadcast(Update{State: StateLive, UpdatedAt: time.Unix(int64(i), 0)})
	}

	var last Update
	for {
		select {
		case u := <-ch:
			last = u
			continue
		default:
		}
		break
	}
	if last.UpdatedAt.Unix() != 39 {
		t.Errorf("expected newest update to be retained, got %v", last.UpdatedAt.Unix())
	}
}

func TestBroadcaster_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := b.Subscribe()
			time.Sleep(time.Millisecond)
			b.Unsubscribe(id)
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Broadcast(Update{State: StateLive})
		}()
	}

	wg.Wait()
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Close()

	for _, ch := range []<-chan Update{ch1, ch2} {
		if _, ok := <-ch; ok {
			t.Error("expected closed channel")
		}
	}

	// Subscribing after Close yields a closed channel
	_, ch3 := b.Subscribe()
	if _, ok := <-ch3; ok {
		t.Error("expected closed channel after Close")
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}
