// Package staging converts user-selected local files into embeddable data-URL
// strings and drives the approximate progress readout shown while they load.
// No remote object storage is involved: staged files live inline in the form
// record until submission.
package staging

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// File is one local file handed to the stager. ContentType is optional; when
// empty it is derived from the file name extension and, failing that, sniffed
// from the payload.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// Option customises the stager.
type Option func(*Stager)

// WithEngine injects the mutation engine used to write staged data into the
// form record.
func WithEngine(engine *formdata.Engine) Option {
	return func(s *Stager) { s.engine = engine }
}

// WithTracker injects a shared progress tracker.
func WithTracker(tracker *Tracker) Option {
	return func(s *Stager) { s.tracker = tracker }
}

// WithTick overrides the synthetic progress tick interval.
func WithTick(tick time.Duration) Option {
	return func(s *Stager) {
		if tick > 0 {
			s.tick = tick
		}
	}
}

// WithResetDelay overrides how long the terminal 100% reading stays visible
// before the entry resets to zero.
func WithResetDelay(delay time.Duration) Option {
	return func(s *Stager) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

// Stager encodes files and applies the results to form records. Single-file
// staging advances by 15 points per tick, batches by 10, mirroring the pace
// users saw in the original console.
type Stager struct {
	engine  *formdata.Engine
	tracker *Tracker
	tick    time.Duration
	delay   time.Duration
}

// NewStager constructs a Stager with defaults: a fresh engine, a fresh
// tracker, 100ms ticks and a one second reset delay.
func NewStager(options ...Option) *Stager {
	s := &Stager{
		tick:  100 * time.Millisecond,
		delay: time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.engine == nil {
		s.engine = formdata.NewEngine()
	}
	if s.tracker == nil {
		s.tracker = NewTracker()
	}
	return s
}

// Tracker exposes the progress tracker for the view layer.
func (s *Stager) Tracker() *Tracker {
	return s.tracker
}

// StageFile encodes one file and writes the data URL into the record at
// fieldPath ("collegeLogo", "sampleDegree.image"). On failure the record is
// returned unchanged and the progress entry resets to zero.
func (s *Stager) StageFile(ctx context.Context, r formdata.Record, fieldPath string, f File) (formdata.Record, error) {
	est := s.tracker.startEstimator(fieldPath, 15, s.tick, s.delay)

	encoded, err := DataURL(ctx, f)
	if err != nil {
		est.Fail()
		return r, fmt.Errorf("staging: encode %q: %w", f.Name, err)
	}

	parent, name := formdata.SplitFieldPath(fieldPath)
	var updated formdata.Record
	if parent != "" {
		updated = s.engine.SetNestedField(r, parent, name, encoded)
	} else {
		updated = s.engine.SetField(r, fieldPath, encoded)
	}

	est.Finish()
	return updated, nil
}

// StageFiles encodes a batch concurrently, joins the results in selection
// order, and appends them to the list at fieldPath in a single update. A
// failure on any file leaves the record untouched.
func (s *Stager) StageFiles(ctx context.Context, r formdata.Record, fieldPath string, files []File) (formdata.Record, error) {
	if len(files) == 0 {
		return r, nil
	}

	est := s.tracker.startEstimator(fieldPath, 10, s.tick, s.delay)

	encoded := make([]string, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			encoded[i], errs[i] = DataURL(ctx, f)
		}(i, f)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			est.Fail()
			return r, fmt.Errorf("staging: encode %q: %w", files[i].Name, err)
		}
	}

	list, ok := r.List(fieldPath)
	if !ok {
		est.Fail()
		return r, fmt.Errorf("staging: unknown list field %q", fieldPath)
	}
	updated := make([]any, len(list), len(list)+len(encoded))
	copy(updated, list)
	for _, item := range encoded {
		updated = append(updated, item)
	}

	out := s.engine.SetArrayItem(r, fieldPath, -1, updated)
	est.Finish()
	return out, nil
}

// RemoveStaged drops one staged element from the list at fieldPath. Pure
// splice, no undo.
func (s *Stager) RemoveStaged(r formdata.Record, fieldPath string, index int) formdata.Record {
	return s.engine.RemoveArrayItem(r, fieldPath, index)
}

// DataURL reads the file fully and encodes it as a data URL.
func DataURL(ctx context.Context, f File) (string, error) {
	if f.Reader == nil {
		return "", fmt.Errorf("missing reader")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(f.Reader)
	if err != nil {
		return "", err
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(f.Name))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
