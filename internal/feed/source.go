// Package feed connects to the realtime fleet data sources. Every source
// delivers the complete value of the subscribed path on each change so that
// consumers can replace their state wholesale.
package feed

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrStreamClosed = errors.New("feed stream closed by server")
	ErrCancelled    = errors.New("feed subscription cancelled by server")
	ErrAuthRevoked  = errors.New("feed credentials revoked")
	ErrStreamIdle   = errors.New("feed stream went silent")
)

// Snapshot maps ambulance id to its raw record. A nil or empty Snapshot
// means the path currently holds no data.
type Snapshot map[string]json.RawMessage

type Source interface {
	// Stream blocks, calling fn in delivery order with every new snapshot,
	// until ctx is done or the connection is lost.
	Stream(ctx context.Context, fn func(Snapshot)) error
}

// StaticSource emits Payload once and then idles until ctx is done.
type StaticSource struct {
	Payload Snapshot
}

func (s StaticSource) Stream(ctx context.Context, fn func(Snapshot)) error {
	fn(s.Payload)
	<-ctx.Done()
	return ctx.Err()
}
