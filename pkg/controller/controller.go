// Package controller composes the form-state engine, the cascading selection
// resolver, the staging pipeline, the draft store, and the gateway into the
// single surface a console view drives. Each view section becomes a pure
// consumer of a slice of this controller instead of threading callbacks
// through siblings.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-collegecms/pkg/catalog"
	"github.com/goliatone/go-collegecms/pkg/draft"
	"github.com/goliatone/go-collegecms/pkg/formdata"
	"github.com/goliatone/go-collegecms/pkg/staging"
)

// Gateway is the slice of the remote API the form flow needs.
type Gateway interface {
	Courses(ctx context.Context) ([]catalog.Entry, error)
	College(ctx context.Context, id string) (map[string]any, error)
	CreateCollege(ctx context.Context, payload map[string]any) error
	UpdateCollege(ctx context.Context, id string, payload map[string]any) error
}

// Option customises the controller.
type Option func(*Controller)

// WithGateway injects the remote API client.
func WithGateway(gw Gateway) Option {
	return func(c *Controller) { c.gateway = gw }
}

// WithDraftStore injects the draft persistence store.
func WithDraftStore(store draft.Store) Option {
	return func(c *Controller) { c.store = store }
}

// WithSession injects the console user's session context.
func WithSession(session Session) Option {
	return func(c *Controller) { c.session = session }
}

// WithEngine injects a custom mutation engine.
func WithEngine(engine *formdata.Engine) Option {
	return func(c *Controller) { c.engine = engine }
}

// WithCatalog injects a pre-built course catalog (tests preload these).
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Controller) { c.catalog = cat }
}

// WithStager injects a custom staging pipeline.
func WithStager(stager *staging.Stager) Option {
	return func(c *Controller) { c.stager = stager }
}

// WithWarnFunc overrides where non-fatal problems are reported.
func WithWarnFunc(warn func(format string, args ...any)) Option {
	return func(c *Controller) {
		c.warn = warn
		c.warnSpecified = true
	}
}

// WithAutosaveInterval overrides the draft safety-net interval (default 30s).
func WithAutosaveInterval(interval time.Duration) Option {
	return func(c *Controller) { c.saveInterval = interval }
}

// Controller owns the record for one editing session. Mutations are confined
// to the session's goroutine the way the original runs on the UI event loop:
// every handler runs to completion before the next. The record pointer itself
// is guarded by a lock because the autosave ticker and the progress tracker
// read from their own goroutines; records are never mutated in place, so a
// reader holding the pointer always sees a consistent snapshot.
type Controller struct {
	engine   *formdata.Engine
	catalog  *catalog.Catalog
	resolver *catalog.Resolver
	stager   *staging.Stager
	store    draft.Store
	saver    *draft.Autosaver
	gateway  Gateway
	validate *validator.Validate
	session  Session

	mu        sync.RWMutex
	record    formdata.Record
	rowStates []catalog.RowState
	collegeID string
	key       string

	saveInterval  time.Duration
	warn          func(format string, args ...any)
	warnSpecified bool
}

// New constructs a Controller with schema defaults and in-memory drafts unless
// configured otherwise.
func New(options ...Option) (*Controller, error) {
	c := &Controller{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if !c.warnSpecified {
		c.warn = log.Printf
	}
	if c.engine == nil {
		c.engine = formdata.NewEngine(formdata.WithWarnFunc(c.warn))
	}
	if c.store == nil {
		c.store = draft.NewMemStore()
	}
	if c.catalog == nil {
		if c.gateway == nil {
			return nil, errors.New("controller: a gateway or a catalog is required")
		}
		c.catalog = catalog.New(catalog.SourceFunc(c.gateway.Courses))
	}
	c.resolver = catalog.NewResolver(c.catalog, catalog.WithResolverWarnFunc(c.warn))
	if c.stager == nil {
		c.stager = staging.NewStager(staging.WithEngine(c.engine))
	}
	c.validate = newValidator()

	c.record = formdata.DefaultCollegeRecord()
	c.key = draft.Key("")
	c.saver = c.newAutosaver()
	c.syncRowStates()
	return c, nil
}

func (c *Controller) newAutosaver() *draft.Autosaver {
	return draft.NewAutosaver(c.store, c.key,
		draft.WithAutosaveWarnFunc(c.warn),
		draft.WithInterval(c.saveInterval),
	)
}

// Hydrate prepares the session: any saved draft replaces the record wholesale,
// then in edit mode the fetched remote entity wins per top-level key it
// provides. A failed remote fetch leaves the local state intact and is
// returned so the view can surface it.
func (c *Controller) Hydrate(ctx context.Context, collegeID string) error {
	c.collegeID = collegeID
	c.key = draft.Key(collegeID)
	c.saver = c.newAutosaver()

	saved, err := c.store.Load(c.key)
	if err != nil {
		c.warnf("controller: draft load failed, continuing in memory: %v", err)
	} else if saved != nil {
		c.setRecord(saved)
	}
	c.syncRowStates()

	if collegeID == "" {
		return nil
	}
	entity, err := c.gateway.College(ctx, collegeID)
	if err != nil {
		return fmt.Errorf("controller: hydrate college %q: %w", collegeID, err)
	}
	c.setRecord(formdata.Merge(c.record, entity))
	c.syncRowStates()
	return nil
}

// Autosave runs the interval safety net until ctx is cancelled. On-change
// saves happen regardless; this only covers changes the store missed.
func (c *Controller) Autosave(ctx context.Context) {
	go c.saver.Run(ctx, c.Record)
}

// Record exposes the current form record. Callers must treat it as read-only.
// Safe to call from other goroutines; the returned snapshot is never mutated.
func (c *Controller) Record() formdata.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.record
}

// Session exposes the session context the controller was built with.
func (c *Controller) Session() Session {
	return c.session
}

// EditMode reports whether the session edits an existing remote entity.
func (c *Controller) EditMode() bool {
	return c.collegeID != ""
}

// commit installs an updated record and mirrors it to the draft store.
func (c *Controller) commit(updated formdata.Record) {
	c.setRecord(updated)
	c.saver.Flush(updated)
}

// setRecord swaps the record pointer under the lock so the autosave goroutine
// never observes a torn write.
func (c *Controller) setRecord(updated formdata.Record) {
	c.mu.Lock()
	c.record = updated
	c.mu.Unlock()
}

func (c *Controller) warnf(format string, args ...any) {
	if c.warn == nil {
		return
	}
	c.warn(format, args...)
}
