package controller

import (
	"context"

	"github.com/goliatone/go-collegecms/pkg/catalog"
	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// Course row operations. Each coursesAndFee row owns its own dependent option
// state, so selecting a stream on row two never disturbs row one's lists.

// Streams returns the entry-point options of the selection chain.
func (c *Controller) Streams(ctx context.Context) []string {
	return c.resolver.Streams(ctx)
}

// CourseRowState exposes the option lists and search text for one course row.
// Out-of-range indexes report an empty state.
func (c *Controller) CourseRowState(index int) catalog.RowState {
	if index < 0 || index >= len(c.rowStates) {
		return catalog.RowState{}
	}
	return c.rowStates[index]
}

// SetCourseField records a selection or manual entry on one course row and
// cascades the dependent resets.
func (c *Controller) SetCourseField(ctx context.Context, index int, field, value string) {
	rows, ok := c.record.List("coursesAndFee")
	if !ok || index < 0 || index >= len(rows) {
		c.warnf("controller: course row %d out of range", index)
		return
	}
	row := courseRowFrom(rows[index])
	state := c.CourseRowState(index)

	row, state = c.resolver.Apply(ctx, row, state, field, value)

	c.commit(c.engine.SetArrayItem(c.record, "coursesAndFee", index, courseRowRecord(row)))
	c.ensureRowStates(len(rows))
	c.rowStates[index] = state
}

// SetCourseQuery stores the course-name search text for one row. The text
// filters displayed options only; it never mutates the row itself.
func (c *Controller) SetCourseQuery(index int, query string) {
	if index < 0 || index >= len(c.rowStates) {
		return
	}
	c.rowStates[index].Query = query
}

// AddCourseRow appends a blank course row with its own fresh option state.
func (c *Controller) AddCourseRow() {
	c.commit(c.engine.AppendArrayItem(c.record, "coursesAndFee", formdata.CourseRowTemplate()))
	c.rowStates = append(c.rowStates, catalog.RowState{})
}

// RemoveCourseRow drops one course row and its option state. The last
// remaining row is protected and stays.
func (c *Controller) RemoveCourseRow(index int) {
	before, _ := c.record.List("coursesAndFee")
	c.commit(c.engine.RemoveArrayItem(c.record, "coursesAndFee", index))
	after, _ := c.record.List("coursesAndFee")
	if len(after) == len(before) {
		return
	}
	c.rowStates = append(c.rowStates[:index], c.rowStates[index+1:]...)
}

// ensureRowStates resizes the per-row state slice to match the course list, so
// hydration from a draft or a remote entity leaves every row addressable.
func (c *Controller) ensureRowStates(n int) {
	for len(c.rowStates) < n {
		c.rowStates = append(c.rowStates, catalog.RowState{})
	}
	if len(c.rowStates) > n {
		c.rowStates = c.rowStates[:n]
	}
}

// syncRowStates rebuilds the per-row states from the current record.
func (c *Controller) syncRowStates() {
	rows, _ := c.record.List("coursesAndFee")
	c.rowStates = make([]catalog.RowState, len(rows))
}

// courseRowFrom reads one coursesAndFee element into a typed row. Slots a
// loaded entity never carried read as empty strings.
func courseRowFrom(item any) catalog.Row {
	rec, ok := item.(formdata.Record)
	if !ok {
		if m, isMap := item.(map[string]any); isMap {
			rec = formdata.Record(m)
		} else {
			return catalog.Row{}
		}
	}
	return catalog.Row{
		Stream:         rec.String("stream"),
		Level:          rec.String("level"),
		DegreeName:     rec.String("degreeName"),
		Specialization: rec.String("specialization"),
		CourseName:     rec.String("courseName"),
		Course:         rec.String("course"),
		Duration:       rec.String("duration"),
		DurationUnit:   rec.String("durationUnit"),
		Fee:            rec.String("fee"),
	}
}

// courseRowRecord writes a typed row back into record shape.
func courseRowRecord(row catalog.Row) formdata.Record {
	return formdata.Record{
		"stream":         row.Stream,
		"level":          row.Level,
		"degreeName":     row.DegreeName,
		"specialization": row.Specialization,
		"courseName":     row.CourseName,
		"course":         row.Course,
		"duration":       row.Duration,
		"durationUnit":   row.DurationUnit,
		"fee":            row.Fee,
	}
}
