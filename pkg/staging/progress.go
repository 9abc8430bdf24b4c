package staging

import (
	"context"
	"sync"
	"time"
)

// Tracker maps field paths to a 0-100 upload percentage. The values are a
// UI-facing approximation only: completion is signalled by the encoding
// finishing, never by the counter reaching 100 on its own. Tracker is safe for
// concurrent use so a console loop can poll it while staging runs.
type Tracker struct {
	mu       sync.Mutex
	progress map[string]int
}

// NewTracker constructs an empty progress tracker.
func NewTracker() *Tracker {
	return &Tracker{progress: make(map[string]int)}
}

// Set records the percentage for a field path.
func (t *Tracker) Set(path string, pct int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress[path] = pct
}

// Get reports the percentage for a field path, zero when untracked.
func (t *Tracker) Get(path string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress[path]
}

// Snapshot copies the whole map for rendering.
func (t *Tracker) Snapshot() map[string]int {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.progress))
	for key, value := range t.progress {
		out[key] = value
	}
	return out
}

// estimator drives the synthetic progress ticks for one staging operation.
// Whole-file reads expose no incremental byte signal, so the percentage climbs
// on a fixed timer instead: it starts at startPct, advances by step per tick,
// and parks at capPct until Finish or Fail.
type estimator struct {
	tracker *Tracker
	path    string
	step    int
	tick    time.Duration
	delay   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

const (
	startPct = 10
	capPct   = 90
)

func (t *Tracker) startEstimator(path string, step int, tick, delay time.Duration) *estimator {
	ctx, cancel := context.WithCancel(context.Background())
	e := &estimator{
		tracker: t,
		path:    path,
		step:    step,
		tick:    tick,
		delay:   delay,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	t.Set(path, startPct)

	go func() {
		defer close(e.done)
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		pct := startPct
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pct += step
				if pct > capPct {
					return
				}
				t.Set(path, pct)
			}
		}
	}()

	return e
}

// Finish forces the terminal state and schedules the reset to zero after the
// completion delay.
func (e *estimator) Finish() {
	e.stop()
	e.tracker.Set(e.path, 100)
	path, tracker := e.path, e.tracker
	time.AfterFunc(e.delay, func() {
		tracker.Set(path, 0)
	})
}

// Fail stops the ticking and resets the entry immediately.
func (e *estimator) Fail() {
	e.stop()
	e.tracker.Set(e.path, 0)
}

func (e *estimator) stop() {
	e.cancel()
	<-e.done
}
