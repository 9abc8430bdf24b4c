// Package catalog holds the course reference data behind the cascading
// stream → level → degree → specialization → course-name selection chain.
// Entries are read-only: the form only ever queries them.
package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Entry is one row of the remote course catalog. The JSON keys mirror the
// remote read contract exactly, spaces included.
type Entry struct {
	Stream         string `json:"Stream"`
	Level          string `json:"Level"`
	DegreeName     string `json:"Degree Name"`
	Specialization string `json:"Specialization"`
	CourseName     string `json:"Course Name"`
}

// Source fetches the raw catalog, typically the gateway client.
type Source interface {
	Courses(ctx context.Context) ([]Entry, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Entry, error)

// Courses implements Source.
func (fn SourceFunc) Courses(ctx context.Context) ([]Entry, error) {
	return fn(ctx)
}

// Catalog caches the course catalog in memory after the first successful
// fetch. A failed fetch is not sticky: the next lookup retries.
type Catalog struct {
	source Source

	mu      sync.Mutex
	entries []Entry
	loaded  bool
}

// New constructs a Catalog over the given source.
func New(source Source) *Catalog {
	return &Catalog{source: source}
}

// Entries returns the cached catalog, fetching it on first use.
func (c *Catalog) Entries(ctx context.Context) ([]Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog: source is not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.entries, nil
	}
	if c.source == nil {
		return nil, fmt.Errorf("catalog: source is not configured")
	}

	entries, err := c.source.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch courses: %w", err)
	}
	c.entries = entries
	c.loaded = true
	return c.entries, nil
}

// Preload seeds the cache directly, bypassing the source. Useful for tests and
// for sessions that already hold the catalog.
func (c *Catalog) Preload(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]Entry{}, entries...)
	c.loaded = true
}
