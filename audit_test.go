package goJWT

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAuditDisabledQueueIsNil(t *testing.T) {
	sink := &countingSink{}
	d := newAuditQueue(AuditConfig{Enabled: false}, sink, nil)
	if d != nil {
		t.Fatal("expected nil queue when audit is disabled")
	}
	d.Emit(context.Background(), AuditEvent{EventType: "e1"})
	d.Close()
	if d.Dropped() != 0 || sink.Count() != 0 {
		t.Fatal("expected disabled queue to be inert")
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	queue := newAuditQueue(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink, nil)
	defer func() {
		close(sink.gate)
		queue.Close()
	}()

	queue.Emit(context.Background(), AuditEvent{EventType: "e1"})
	queue.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	queue.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if queue.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	queue := newAuditQueue(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink, nil)
	defer func() {
		close(sink.gate)
		queue.Close()
	}()

	queue.Emit(context.Background(), AuditEvent{EventType: "e1"})
	queue.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		queue.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestAuditCloseFlushesBufferedEvents(t *testing.T) {
	sink := &countingSink{}
	queue := newAuditQueue(AuditConfig{Enabled: true, BufferSize: 16}, sink, nil)

	for i := 0; i < 10; i++ {
		queue.Emit(context.Background(), AuditEvent{EventType: "e"})
	}
	queue.Close()

	if got := sink.Count(); got != 10 {
		t.Fatalf("expected 10 delivered events, got %d", got)
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), AuditEvent{
		ID:        "evt-1",
		Timestamp: time.Now().UTC(),
		EventType: AuditTokenRevoked,
		Subject:   "u1",
		TokenID:   "abc",
		IP:        "127.0.0.1",
		Success:   true,
	})

	out := buf.String()
	if !strings.Contains(out, `"event_type":"token_revoked"`) {
		t.Fatalf("expected JSON line to contain event type, got %s", out)
	}
	if !strings.Contains(out, `"jti":"abc"`) {
		t.Fatalf("expected JSON line to contain jti, got %s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatal("expected newline-terminated JSON line")
	}
}

func TestAuditQueueCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	queue := newAuditQueue(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{}, nil)

	queue.Emit(context.Background(), AuditEvent{EventType: "e1"})
	queue.Close()
	queue.Close()
	queue.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

func TestAuditDropsCountedPerEventType(t *testing.T) {
	sink := newGateSink()
	queue := newAuditQueue(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink, nil)
	defer func() {
		close(sink.gate)
		queue.Close()
	}()

	// The worker holds the first event at the gate and the second fills
	// the buffer; everything after is dropped.
	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})
	waitFor(t, func() bool { return len(queue.events) == 0 })
	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})

	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})
	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenRevoked})
	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenRevoked})

	if got := queue.Dropped(); got != 3 {
		t.Fatalf("expected 3 dropped events, got %d", got)
	}
	byType := queue.DroppedByType()
	if byType[AuditTokenIssued] != 1 || byType[AuditTokenRevoked] != 2 {
		t.Fatalf("unexpected per-type drops: %v", byType)
	}
	if _, ok := byType[AuditTokenVerifyFailed]; ok {
		t.Fatal("expected types without drops to be absent")
	}

	byType[AuditTokenIssued] = 99
	if queue.DroppedByType()[AuditTokenIssued] != 1 {
		t.Fatal("expected DroppedByType to return a copy")
	}
}

func TestAuditCancelledEmitIsCounted(t *testing.T) {
	sink := newGateSink()
	queue := newAuditQueue(AuditConfig{Enabled: true, BufferSize: 1}, sink, nil)
	defer func() {
		close(sink.gate)
		queue.Close()
	}()

	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})
	waitFor(t, func() bool { return len(queue.events) == 0 })
	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	queue.Emit(ctx, AuditEvent{EventType: AuditTokenVerifyFailed})

	if queue.DroppedByType()[AuditTokenVerifyFailed] != 1 {
		t.Fatalf("expected cancelled emit to count as a drop, got %v", queue.DroppedByType())
	}
}

type panicSink struct {
	countingSink
}

func (s *panicSink) Emit(ctx context.Context, event AuditEvent) {
	if event.EventType == "boom" {
		panic("sink failure")
	}
	s.countingSink.Emit(ctx, event)
}

func TestAuditSinkPanicIsLoggedAndWorkerSurvives(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	sink := &panicSink{}
	queue := newAuditQueue(AuditConfig{Enabled: true, BufferSize: 8}, sink, logger)

	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})
	queue.Emit(context.Background(), AuditEvent{ID: "evt-boom", EventType: "boom"})
	queue.Emit(context.Background(), AuditEvent{EventType: AuditTokenRevoked})
	queue.Close()

	if got := sink.Count(); got != 2 {
		t.Fatalf("expected events around the panic to be delivered, got %d", got)
	}
	if queue.SinkPanics() != 1 {
		t.Fatalf("expected one sink panic, got %d", queue.SinkPanics())
	}
	out := logs.String()
	if !strings.Contains(out, "audit sink panicked") || !strings.Contains(out, "event_id=evt-boom") {
		t.Fatalf("expected panic to be logged with the event id, got %q", out)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}
