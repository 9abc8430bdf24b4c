package catalog

import (
	"context"
	"log"
	"strings"
)

// Row field names accepted by Resolver.Apply. They match the coursesAndFee
// slot names in the form record.
const (
	FieldStream         = "stream"
	FieldLevel          = "level"
	FieldDegreeName     = "degreeName"
	FieldSpecialization = "specialization"
	FieldCourseName     = "courseName"
	FieldCourse         = "course"
	FieldDuration       = "duration"
	FieldDurationUnit   = "durationUnit"
	FieldFee            = "fee"
)

// Row is one course-and-fee selection. All values are entered or derived
// strings; fee stays textual until submission shaping.
type Row struct {
	Stream         string
	Level          string
	DegreeName     string
	Specialization string
	CourseName     string
	Course         string
	Duration       string
	DurationUnit   string
	Fee            string
}

// RowState carries the dependent option lists and search text for one course
// row. Every row owns its own state; selections in one row never leak into
// another.
type RowState struct {
	Levels          []string
	Degrees         []string
	Specializations []string
	CourseNames     []string
	Query           string
}

// ResolverOption customises the resolver.
type ResolverOption func(*Resolver)

// WithResolverWarnFunc overrides where catalog-lookup failures are reported.
func WithResolverWarnFunc(warn func(format string, args ...any)) ResolverOption {
	return func(r *Resolver) {
		r.warn = warn
		r.warnSpecified = true
	}
}

// Resolver derives dependent option lists from the catalog and applies the
// cascading reset rules when an upstream selection changes. A catalog fetch
// failure is non-fatal: the affected option lists come back empty and manual
// text entry remains possible.
type Resolver struct {
	catalog       *Catalog
	warn          func(format string, args ...any)
	warnSpecified bool
}

// NewResolver constructs a Resolver over a catalog.
func NewResolver(c *Catalog, options ...ResolverOption) *Resolver {
	r := &Resolver{catalog: c}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if !r.warnSpecified {
		r.warn = log.Printf
	}
	return r
}

// Streams returns the distinct stream options, the entry point of the chain.
func (r *Resolver) Streams(ctx context.Context) []string {
	return Streams(r.entries(ctx))
}

// Apply records a field change on one course row, cascading the dependent
// resets and recomputing the option lists the change invalidates. Fields
// outside the dependency chain (duration, fee, a hand-edited course label) are
// stored as-is.
func (r *Resolver) Apply(ctx context.Context, row Row, state RowState, field, value string) (Row, RowState) {
	switch field {
	case FieldStream:
		row.Stream = value
		row.Level = ""
		row.DegreeName = ""
		row.Specialization = ""
		row.CourseName = ""
		row.Course = ""
		state.Levels = Levels(r.entries(ctx), value)
		state.Degrees = nil
		state.Specializations = nil
		state.CourseNames = nil

	case FieldLevel:
		row.Level = value
		row.DegreeName = ""
		row.Specialization = ""
		row.CourseName = ""
		row.Course = ""
		state.Degrees = nil
		state.Specializations = nil
		state.CourseNames = nil
		if row.Stream != "" {
			state.Degrees = Degrees(r.entries(ctx), row.Stream, value)
		}

	case FieldDegreeName:
		row.DegreeName = value
		row.Specialization = ""
		row.CourseName = ""
		row.Course = ""
		state.Specializations = nil
		state.CourseNames = nil
		if row.Stream != "" && row.Level != "" {
			state.Specializations = Specializations(r.entries(ctx), row.Stream, row.Level, value)
		}

	case FieldSpecialization:
		row.Specialization = value
		row.CourseName = ""
		state.CourseNames = nil
		if row.Stream != "" && row.Level != "" && row.DegreeName != "" {
			state.CourseNames = CourseNames(r.entries(ctx), row.Stream, row.Level, row.DegreeName, value)
		}

	case FieldCourseName:
		row.CourseName = value
		row.Course = CourseLabel(row.Stream, row.DegreeName, value)

	case FieldCourse:
		// Hand-edited composite label; never re-derived once touched.
		row.Course = value
	case FieldDuration:
		row.Duration = value
	case FieldDurationUnit:
		row.DurationUnit = value
	case FieldFee:
		row.Fee = value
	default:
		r.warnf("catalog: unknown course row field %q", field)
	}

	return row, state
}

// CourseLabel derives the human-readable composite course label:
// first three letters of the stream uppercased, the degree, and the course
// name. "Engineering"/"B.Tech"/"B.Tech CS" → "ENG - B.Tech in B.Tech CS".
func CourseLabel(stream, degree, courseName string) string {
	abbr := stream
	if runes := []rune(abbr); len(runes) > 3 {
		abbr = string(runes[:3])
	}
	return strings.ToUpper(abbr) + " - " + degree + " in " + courseName
}

func (r *Resolver) entries(ctx context.Context) []Entry {
	if r.catalog == nil {
		return nil
	}
	entries, err := r.catalog.Entries(ctx)
	if err != nil {
		r.warnf("catalog: lookup failed, options empty: %v", err)
		return nil
	}
	return entries
}

func (r *Resolver) warnf(format string, args ...any) {
	if r.warn == nil {
		return
	}
	r.warn(format, args...)
}
