package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tuneport/model"
)

// countingStore wraps a store to count and optionally fail saves.
type countingStore struct {
	Store

	mu       sync.Mutex
	saves    int
	failures int
}

func (s *countingStore) Save(ctx context.Context, d *model.ReleaseDraft) error {
	s.mu.Lock()
	s.saves++
	fail := s.failures > 0
	if fail {
		s.failures--
	}
	s.mu.Unlock()

	if fail {
		return errors.New("store unavailable")
	}
	return s.Store.Save(ctx, d)
}

func (s *countingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestAutosaverDebounceCoalesces(t *testing.T) {
	store := &countingStore{Store: NewMemoryStore()}
	as := NewAutosaver(store, 30*time.Millisecond, time.Hour)
	as.Start()
	defer as.Stop()

	d := testDraft("draft_as_1", 7)
	for i := 0; i < 5; i++ {
		d.CurrentStep = i + 1
		as.Touch(d)
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return store.saveCount() >= 1 })
	// The burst of touches produced one debounced save, not five.
	if got := store.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1", got)
	}

	got, err := store.Load(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CurrentStep != 5 {
		t.Fatalf("saved step = %d, want the final touch's value 5", got.CurrentStep)
	}
}

func TestAutosaverFlush(t *testing.T) {
	store := &countingStore{Store: NewMemoryStore()}
	as := NewAutosaver(store, time.Hour, time.Hour)
	as.Start()
	defer as.Stop()

	d := testDraft("draft_as_2", 7)
	as.Touch(d)
	as.Flush()

	if _, err := store.Load(context.Background(), d.ID); err != nil {
		t.Fatalf("draft not saved by Flush: %v", err)
	}

	// Nothing pending: another flush must not save again.
	before := store.saveCount()
	as.Flush()
	if store.saveCount() != before {
		t.Fatal("Flush with nothing pending performed a save")
	}
}

func TestAutosaverStopFlushesOnce(t *testing.T) {
	store := &countingStore{Store: NewMemoryStore()}
	as := NewAutosaver(store, time.Hour, time.Hour)
	as.Start()

	d := testDraft("draft_as_3", 7)
	as.Touch(d)

	as.Stop()
	as.Stop() // stopping twice must be safe

	if _, err := store.Load(context.Background(), d.ID); err != nil {
		t.Fatalf("draft not saved by Stop: %v", err)
	}
}

func TestAutosaverRetriesFailedSave(t *testing.T) {
	store := &countingStore{Store: NewMemoryStore(), failures: 1}
	as := NewAutosaver(store, time.Hour, 20*time.Millisecond)
	as.Start()
	defer as.Stop()

	d := testDraft("draft_as_4", 7)
	as.Touch(d)

	// First interval save fails; the draft stays pending and a later tick
	// lands it.
	waitFor(t, time.Second, func() bool {
		_, err := store.Load(context.Background(), d.ID)
		return err == nil
	})
	if store.saveCount() < 2 {
		t.Fatalf("saves = %d, want at least one failure plus one retry", store.saveCount())
	}
}
