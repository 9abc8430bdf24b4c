package draft

import (
	"context"
	"log"
	"time"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// Guard decides whether a record is worth persisting. The default guard skips
// all-default records so an untouched session never leaves a snapshot behind.
type Guard func(formdata.Record) bool

// AutosaverOption customises the autosaver.
type AutosaverOption func(*Autosaver)

// WithInterval overrides the safety-net interval (default 30s).
func WithInterval(interval time.Duration) AutosaverOption {
	return func(a *Autosaver) {
		if interval > 0 {
			a.interval = interval
		}
	}
}

// WithGuard overrides the meaningful-content guard.
func WithGuard(guard Guard) AutosaverOption {
	return func(a *Autosaver) {
		if guard != nil {
			a.guard = guard
		}
	}
}

// WithAutosaveWarnFunc overrides where storage failures are reported. They are
// never fatal; the session simply continues in memory.
func WithAutosaveWarnFunc(warn func(format string, args ...any)) AutosaverOption {
	return func(a *Autosaver) {
		a.warn = warn
		a.warnSpecified = true
	}
}

// Autosaver mirrors a form record to a Store: on every meaningful change via
// Flush, and on a fixed interval via Run as a safety net. Both paths are
// idempotent wholesale overwrites, so ordering only decides which snapshot
// wins.
type Autosaver struct {
	store         Store
	key           string
	interval      time.Duration
	guard         Guard
	warn          func(format string, args ...any)
	warnSpecified bool
}

// NewAutosaver constructs an Autosaver for one session key.
func NewAutosaver(store Store, key string, options ...AutosaverOption) *Autosaver {
	a := &Autosaver{
		store:    store,
		key:      key,
		interval: 30 * time.Second,
		guard:    formdata.HasMeaningfulContent,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	if !a.warnSpecified {
		a.warn = log.Printf
	}
	return a
}

// Flush writes the record immediately if the guard passes. Storage failures
// are logged and swallowed.
func (a *Autosaver) Flush(record formdata.Record) {
	if a == nil || a.store == nil {
		return
	}
	if !a.guard(record) {
		return
	}
	if err := a.store.Save(a.key, record); err != nil {
		a.warnf("draft: autosave failed: %v", err)
	}
}

// Run flushes the latest snapshot on the configured interval until the context
// is cancelled. snapshot is called on Run's own goroutine, so it must be safe
// for concurrent use; records are never mutated in place, so returning the
// current pointer under the caller's lock is enough.
func (a *Autosaver) Run(ctx context.Context, snapshot func() formdata.Record) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Flush(snapshot())
		}
	}
}

func (a *Autosaver) warnf(format string, args ...any) {
	if a.warn == nil {
		return
	}
	a.warn(format, args...)
}
