package feed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/sse"
)

// FirebaseSource subscribes to a Realtime Database path through the REST
// streaming API (Server-Sent Events).
type FirebaseSource struct {
	endpoint    string
	client      *http.Client
	idleTimeout time.Duration
}

type firebaseEvent struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

// NewFirebaseSource builds a source for <databaseURL>/<path>.json. auth may be
// empty for public databases. A stream that delivers no event, keep-alives
// included, for idleTimeout is treated as dropped; zero disables the check.
func NewFirebaseSource(databaseURL, path, auth string, dialTimeout, idleTimeout time.Duration) (*FirebaseSource, error) {
	u, err := url.Parse(strings.TrimRight(databaseURL, "/") + "/" + strings.Trim(path, "/") + ".json")
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid database url scheme: %q", u.Scheme)
	}
	if auth != "" {
		q := u.Query()
		q.Set("auth", auth)
		u.RawQuery = q.Encode()
	}

	// No client timeout: the response body stays open for the whole subscription.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = dialTimeout

	return &FirebaseSource{
		endpoint:    u.String(),
		client:      &http.Client{Transport: transport},
		idleTimeout: idleTimeout,
	}, nil
}

func (s *FirebaseSource) Stream(ctx context.Context, fn func(Snapshot)) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Firebase sends keep-alive roughly every 30s; silence means a dead connection.
	var idle atomic.Bool
	resetIdle := func() {}
	if s.idleTimeout > 0 {
		watchdog := time.AfterFunc(s.idleTimeout, func() {
			idle.Store(true)
			cancel()
		})
		defer watchdog.Stop()
		resetIdle = func() { watchdog.Reset(s.idleTimeout) }
	}

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		if idle.Load() && ctx.Err() == nil {
			return ErrStreamIdle
		}
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var t tree
	r := bufio.NewReaderSize(resp.Body, 64*1024)
	for {
		ev, err := readEvent(r)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if idle.Load() {
				return ErrStreamIdle
			}
			if errors.Is(err, io.EOF) {
				return ErrStreamClosed
			}
			return fmt.Errorf("error reading event stream: %w", err)
		}

		resetIdle()

		switch strings.TrimSpace(ev.Event) {
		case "put", "patch":
			if err := applyEvent(&t, ev); err != nil {
				slog.Warn("skipping malformed feed event", "event", ev.Event, "error", err)
				continue
			}
			fn(t.snapshot())
		case "keep-alive":
		case "cancel":
			return ErrCancelled
		case "auth_revoked":
			return ErrAuthRevoked
		default:
			slog.Debug("ignoring feed event", "event", ev.Event)
		}
	}
}

func applyEvent(t *tree, ev sse.Event) error {
	data, _ := ev.Data.(string)

	var fe firebaseEvent
	if err := json.Unmarshal([]byte(data), &fe); err != nil {
		return fmt.Errorf("error decoding event data: %w", err)
	}

	var value any
	if len(fe.Data) > 0 {
		if err := json.Unmarshal(fe.Data, &value); err != nil {
			return fmt.Errorf("error decoding event value: %w", err)
		}
	}

	if strings.TrimSpace(ev.Event) == "patch" {
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("patch value is not an object")
		}
		t.patch(fe.Path, m)
		return nil
	}
	t.put(fe.Path, value)
	return nil
}

// readEvent collects one blank-line terminated block and decodes it.
func readEvent(r *bufio.Reader) (sse.Event, error) {
	var block bytes.Buffer
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			trimmed := bytes.TrimRight(line, "\r\n")
			if len(trimmed) == 0 {
				if block.Len() == 0 {
					continue
				}
				break
			}
			block.Write(trimmed)
			block.WriteByte('\n')
		}
		if err != nil {
			if block.Len() == 0 || !errors.Is(err, io.EOF) {
				return sse.Event{}, err
			}
			break
		}
	}

	events, err := sse.Decode(&block)
	if err != nil {
		return sse.Event{}, err
	}
	if len(events) == 0 {
		return sse.Event{}, io.ErrUnexpectedEOF
	}
	return events[0], nil
}
