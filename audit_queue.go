package goJWT

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
)

// auditQueue delivers audit events to a sink from one worker goroutine.
// Token operations block on it only when DropIfFull is off and the buffer
// is full.
type auditQueue struct {
	sink       AuditSink
	logger     *slog.Logger
	dropIfFull bool

	// mu guards closed and the send side of events; Close takes it
	// exclusively so no Emit can send on a closed channel.
	mu      sync.RWMutex
	closed  bool
	events  chan AuditEvent
	stopped chan struct{}

	dropMu   sync.Mutex
	dropped  map[string]uint64
	total    atomic.Uint64
	panicked atomic.Uint64
}

// newAuditQueue returns nil when auditing is disabled; every method is a
// no-op on a nil queue.
func newAuditQueue(cfg AuditConfig, sink AuditSink, logger *slog.Logger) *auditQueue {
	if !cfg.Enabled {
		return nil
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	q := &auditQueue{
		sink:       sink,
		logger:     logger,
		dropIfFull: cfg.DropIfFull,
		events:     make(chan AuditEvent, size),
		stopped:    make(chan struct{}),
		dropped:    make(map[string]uint64),
	}
	go q.work()
	return q
}

func (q *auditQueue) work() {
	defer close(q.stopped)
	for event := range q.events {
		q.deliver(event)
	}
}

// deliver hands one event to the sink. A panicking sink loses that event
// only.
func (q *auditQueue) deliver(event AuditEvent) {
	defer func() {
		if r := recover(); r != nil {
			q.panicked.Add(1)
			q.logger.Error("audit sink panicked",
				slog.String("event_type", event.EventType),
				slog.String("event_id", event.ID),
				slog.Any("panic", r))
		}
	}()
	q.sink.Emit(context.Background(), event)
}

// Emit enqueues event. With DropIfFull a full buffer drops it; otherwise
// Emit waits for room until ctx is done. Events emitted after Close are
// discarded without being counted.
func (q *auditQueue) Emit(ctx context.Context, event AuditEvent) {
	if q == nil {
		return
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}

	if q.dropIfFull {
		select {
		case q.events <- event:
		default:
			q.drop(event.EventType)
		}
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case q.events <- event:
	case <-ctx.Done():
		q.drop(event.EventType)
	}
}

func (q *auditQueue) drop(eventType string) {
	q.total.Add(1)
	q.dropMu.Lock()
	q.dropped[eventType]++
	q.dropMu.Unlock()
}

// Close stops intake and returns once every buffered event reached the
// sink. It is safe to call more than once.
func (q *auditQueue) Close() {
	if q == nil {
		return
	}
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()
	<-q.stopped
}

func (q *auditQueue) Dropped() uint64 {
	if q == nil {
		return 0
	}
	return q.total.Load()
}

// DroppedByType returns a copy of the drop counts keyed by event type.
func (q *auditQueue) DroppedByType() map[string]uint64 {
	if q == nil {
		return map[string]uint64{}
	}
	q.dropMu.Lock()
	defer q.dropMu.Unlock()
	return maps.Clone(q.dropped)
}

// SinkPanics counts events lost to a panicking sink.
func (q *auditQueue) SinkPanics() uint64 {
	if q == nil {
		return 0
	}
	return q.panicked.Load()
}
