package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestResolver(entries []Entry) *Resolver {
	c := New(nil)
	c.Preload(entries)
	return NewResolver(c, WithResolverWarnFunc(nil))
}

func TestApply_StreamChangeResetsDownstream(t *testing.T) {
	resolver := newTestResolver(sampleEntries())
	row := Row{
		Stream:         "Management",
		Level:          "PG",
		DegreeName:     "MBA",
		Specialization: "Finance",
		CourseName:     "MBA Finance",
		Course:         "MAN - MBA in MBA Finance",
		Duration:       "2",
		Fee:            "500000",
	}

	row, state := resolver.Apply(context.Background(), row, RowState{}, FieldStream, "Engineering")

	if row.Stream != "Engineering" {
		t.Fatalf("stream not applied: %q", row.Stream)
	}
	if row.Level != "" || row.DegreeName != "" || row.Specialization != "" || row.CourseName != "" || row.Course != "" {
		t.Fatalf("downstream fields not reset: %+v", row)
	}
	// Fields outside the chain survive the cascade.
	if row.Duration != "2" || row.Fee != "500000" {
		t.Fatalf("unrelated fields were reset: %+v", row)
	}
	if diff := cmp.Diff([]string{"UG", "PG"}, state.Levels); diff != "" {
		t.Fatalf("unexpected levels (-want +got):\n%s", diff)
	}
	if state.Degrees != nil || state.Specializations != nil || state.CourseNames != nil {
		t.Fatalf("deeper option lists should be empty until prerequisites are set: %+v", state)
	}
}

func TestApply_CascadeWalksTheChain(t *testing.T) {
	resolver := newTestResolver(sampleEntries())
	ctx := context.Background()

	row, state := resolver.Apply(ctx, Row{}, RowState{}, FieldStream, "Engineering")
	row, state = resolver.Apply(ctx, row, state, FieldLevel, "UG")
	if diff := cmp.Diff([]string{"B.Tech", "B.E"}, state.Degrees); diff != "" {
		t.Fatalf("unexpected degrees (-want +got):\n%s", diff)
	}

	row, state = resolver.Apply(ctx, row, state, FieldDegreeName, "B.Tech")
	if diff := cmp.Diff([]string{"CS", "Mechanical"}, state.Specializations); diff != "" {
		t.Fatalf("unexpected specializations (-want +got):\n%s", diff)
	}

	row, state = resolver.Apply(ctx, row, state, FieldSpecialization, "CS")
	if diff := cmp.Diff([]string{"B.Tech CS"}, state.CourseNames); diff != "" {
		t.Fatalf("unexpected course names (-want +got):\n%s", diff)
	}

	row, _ = resolver.Apply(ctx, row, state, FieldCourseName, "B.Tech CS")
	if row.Course != "ENG - B.Tech in B.Tech CS" {
		t.Fatalf("unexpected derived course label: %q", row.Course)
	}
}

func TestApply_MidChainChangeClearsOnlyDeeperFields(t *testing.T) {
	resolver := newTestResolver(sampleEntries())
	ctx := context.Background()

	row, state := resolver.Apply(ctx, Row{}, RowState{}, FieldStream, "Engineering")
	row, state = resolver.Apply(ctx, row, state, FieldLevel, "UG")
	row, state = resolver.Apply(ctx, row, state, FieldDegreeName, "B.Tech")
	row, state = resolver.Apply(ctx, row, state, FieldSpecialization, "CS")
	row, state = resolver.Apply(ctx, row, state, FieldCourseName, "B.Tech CS")

	row, state = resolver.Apply(ctx, row, state, FieldLevel, "PG")

	if row.Stream != "Engineering" {
		t.Fatalf("upstream stream was cleared")
	}
	if row.DegreeName != "" || row.Specialization != "" || row.CourseName != "" || row.Course != "" {
		t.Fatalf("fields below level not reset: %+v", row)
	}
	if diff := cmp.Diff([]string{"M.Tech"}, state.Degrees); diff != "" {
		t.Fatalf("unexpected degrees (-want +got):\n%s", diff)
	}
}

func TestApply_HandEditedLabelIsNotRederived(t *testing.T) {
	resolver := newTestResolver(sampleEntries())
	ctx := context.Background()

	row, state := resolver.Apply(ctx, Row{Stream: "Engineering", DegreeName: "B.Tech"}, RowState{}, FieldCourseName, "B.Tech CS")
	row, _ = resolver.Apply(ctx, row, state, FieldCourse, "Custom label")

	if row.Course != "Custom label" {
		t.Fatalf("hand edit was overwritten: %q", row.Course)
	}
}

func TestApply_CatalogFailureYieldsEmptyOptions(t *testing.T) {
	failing := New(SourceFunc(func(context.Context) ([]Entry, error) {
		return nil, errors.New("offline")
	}))
	resolver := NewResolver(failing, WithResolverWarnFunc(nil))

	row, state := resolver.Apply(context.Background(), Row{}, RowState{}, FieldStream, "Engineering")

	if row.Stream != "Engineering" {
		t.Fatalf("manual entry must survive a catalog failure")
	}
	if len(state.Levels) != 0 {
		t.Fatalf("expected empty levels on catalog failure, got %#v", state.Levels)
	}
}

func TestApply_RowsAreIndependent(t *testing.T) {
	resolver := newTestResolver(sampleEntries())
	ctx := context.Background()

	rowA, stateA := resolver.Apply(ctx, Row{}, RowState{}, FieldStream, "Engineering")
	rowB, stateB := resolver.Apply(ctx, Row{}, RowState{}, FieldStream, "Management")

	if rowA.Stream != "Engineering" || rowB.Stream != "Management" {
		t.Fatalf("rows leaked values: %+v %+v", rowA, rowB)
	}
	if diff := cmp.Diff([]string{"UG", "PG"}, stateA.Levels); diff != "" {
		t.Fatalf("row A levels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"PG"}, stateB.Levels); diff != "" {
		t.Fatalf("row B levels (-want +got):\n%s", diff)
	}
}

func TestCourseLabel_ShortStream(t *testing.T) {
	if got := CourseLabel("IT", "B.Sc", "B.Sc IT"); got != "IT - B.Sc in B.Sc IT" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := CourseLabel("", "B.Tech", "X"); got != " - B.Tech in X" {
		t.Fatalf("unexpected label for empty stream: %q", got)
	}
}

func TestCourseLabel_MultiByteStream(t *testing.T) {
	if got := CourseLabel("Ökologie", "B.Sc", "Umweltwissenschaft"); got != "ÖKO - B.Sc in Umweltwissenschaft" {
		t.Fatalf("unexpected label: %q", got)
	}
}
