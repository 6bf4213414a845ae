package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestBufferedActivitySink_NonBlockingFallbackWhenQueueIsFull(t *testing.T) {
	primary := &blockingActivitySink{block: make(chan struct{})}
	fallback := &bufferCapturingActivitySink{}
	sink, err := NewBufferedActivitySink(primary, fallback, ActivityRetentionPolicy{}, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer func() {
		close(primary.block)
		sink.Close()
	}()

	// With the worker parked on the first entry and the queue holding the
	// second, the third write must spill to the fallback without blocking.
	start := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		entry := ActivityEntry{ID: id, AccountID: 1, Action: "account.updated"}
		if err := sink.Record(context.Background(), entry); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatalf("expected non-blocking writes under a saturated queue")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		fallback.mu.Lock()
		count := len(fallback.entries)
		fallback.mu.Unlock()
		if count > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected fallback sink to capture saturated write")
}

func TestBufferedActivitySink_FallbackOnPrimaryError(t *testing.T) {
	primary := &errorActivitySink{}
	fallback := &bufferCapturingActivitySink{}
	sink, err := NewBufferedActivitySink(primary, fallback, ActivityRetentionPolicy{}, 4)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	if err := sink.Record(context.Background(), ActivityEntry{ID: "x", AccountID: 2, Action: "account.deleted"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		fallback.mu.Lock()
		count := len(fallback.entries)
		fallback.mu.Unlock()
		if count == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected fallback write after primary failure")
}

func TestBufferedActivitySink_EnforceRetention(t *testing.T) {
	pruner := &stubPruner{deleted: 7}
	sink, err := NewBufferedActivitySink(pruner, nil, ActivityRetentionPolicy{
		TTL:    24 * time.Hour,
		RowCap: 100,
	}, 4)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	deleted, err := sink.EnforceRetention(context.Background())
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}
	if deleted != 7 {
		t.Fatalf("expected deleted=7, got %d", deleted)
	}
	if pruner.lastPolicy.RowCap != 100 || pruner.lastPolicy.TTL != 24*time.Hour {
		t.Fatalf("expected policy propagation")
	}
}

type blockingActivitySink struct {
	block chan struct{}
}

func (s *blockingActivitySink) Record(context.Context, ActivityEntry) error {
	<-s.block
	return nil
}

type errorActivitySink struct{}

func (errorActivitySink) Record(context.Context, ActivityEntry) error {
	return errors.New("primary write failed")
}

type bufferCapturingActivitySink struct {
	mu      sync.Mutex
	entries []ActivityEntry
	last    ActivityEntry
}

func (s *bufferCapturingActivitySink) Record(_ context.Context, entry ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = entry
	s.entries = append(s.entries, entry)
	return nil
}

type stubPruner struct {
	lastPolicy ActivityRetentionPolicy
	deleted    int
}

func (s *stubPruner) Record(context.Context, ActivityEntry) error {
	return nil
}

func (s *stubPruner) Prune(_ context.Context, policy ActivityRetentionPolicy) (int, error) {
	s.lastPolicy = policy
	return s.deleted, nil
}

var (
	_ ActivitySink            = (*blockingActivitySink)(nil)
	_ ActivitySink            = (*errorActivitySink)(nil)
	_ ActivitySink            = (*bufferCapturingActivitySink)(nil)
	_ ActivityRetentionPruner = (*stubPruner)(nil)
)
