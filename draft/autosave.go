package draft

import (
	"context"
	"sync"
	"time"

	"tuneport/logger"
	"tuneport/model"
)

// Default autosave cadence, matching the portal behaviour.
const (
	DefaultDebounce = 2 * time.Second
	DefaultInterval = 30 * time.Second
)

// Autosaver feeds one Save operation from two triggers: a debounce timer that
// fires after field edits go quiet, and a fixed-interval ticker that fires
// regardless of activity so a crash between debounce windows loses little.
// Flush is the page-close analogue: a best-effort immediate save.
//
// Both triggers may fire around the same edit; Save is an idempotent upsert,
// so redundant saves are harmless. A failed background save is not surfaced
// to the user; the dirty draft stays pending and the next tick retries.
type Autosaver struct {
	store    Store
	debounce time.Duration
	interval time.Duration

	mu      sync.Mutex
	pending *model.ReleaseDraft
	timer   *time.Timer

	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewAutosaver creates an autosaver over the store. Non-positive durations
// fall back to the defaults.
func NewAutosaver(store Store, debounce, interval time.Duration) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autosaver{
		store:    store,
		debounce: debounce,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the interval trigger.
func (a *Autosaver) Start() {
	a.ticker = time.NewTicker(a.interval)
	go func() {
		for {
			select {
			case <-a.ticker.C:
				a.flush()
			case <-a.stop:
				return
			}
		}
	}()
}

// Touch records the latest draft state and rearms the debounce timer.
func (a *Autosaver) Touch(d *model.ReleaseDraft) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = d
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.flush)
}

// Flush saves the pending draft immediately, if any.
func (a *Autosaver) Flush() {
	a.flush()
}

// Stop flushes once more and halts both triggers.
func (a *Autosaver) Stop() {
	a.once.Do(func() {
		close(a.stop)
		if a.ticker != nil {
			a.ticker.Stop()
		}
		a.mu.Lock()
		if a.timer != nil {
			a.timer.Stop()
		}
		a.mu.Unlock()
		a.flush()
	})
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	d := a.pending
	a.mu.Unlock()
	if d == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.store.Save(ctx, d); err != nil {
		// Background autosave is not user-initiated: log and retry next tick.
		logger.Warn("draft autosave failed, will retry",
			logger.String("draftId", d.ID),
			logger.ErrorField(err),
		)
		return
	}

	a.mu.Lock()
	// Keep pending only if Touch replaced it while we were saving.
	if a.pending == d {
		a.pending = nil
	}
	a.mu.Unlock()
}
