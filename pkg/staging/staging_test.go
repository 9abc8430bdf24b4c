package staging

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk error")
}

func newTestStager() *Stager {
	return NewStager(
		WithEngine(formdata.NewEngine(formdata.WithWarnFunc(nil))),
		WithTick(time.Millisecond),
		WithResetDelay(5*time.Millisecond),
	)
}

func TestDataURL_EncodesContent(t *testing.T) {
	got, err := DataURL(context.Background(), File{
		Name:   "logo.png",
		Reader: strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	if got != want {
		t.Fatalf("unexpected data URL:\n got %q\nwant %q", got, want)
	}
}

func TestDataURL_SniffsUnknownExtension(t *testing.T) {
	got, err := DataURL(context.Background(), File{
		Name:   "blob.unknownext",
		Reader: strings.NewReader("plain text payload"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(got, "data:text/plain") {
		t.Fatalf("expected sniffed text content type, got %q", got)
	}
}

func TestStageFile_TopLevelField(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()

	updated, err := stager.StageFile(context.Background(), record, "collegeLogo", File{
		Name:   "logo.png",
		Reader: strings.NewReader("logo"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(updated.String("collegeLogo"), "data:image/png;base64,") {
		t.Fatalf("staged data not written: %q", updated.String("collegeLogo"))
	}
	if record.String("collegeLogo") != "" {
		t.Fatalf("input record was mutated")
	}
}

func TestStageFile_NestedField(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()

	updated, err := stager.StageFile(context.Background(), record, "sampleDegree.image", File{
		Name:   "degree.jpg",
		Reader: strings.NewReader("jpg"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(updated.String("sampleDegree.image"), "data:image/jpeg;base64,") {
		t.Fatalf("nested staged data not written: %q", updated.String("sampleDegree.image"))
	}
}

func TestStageFile_ReadFailureResetsProgress(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()

	updated, err := stager.StageFile(context.Background(), record, "collegeLogo", File{
		Name:   "broken.png",
		Reader: failingReader{},
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if updated.String("collegeLogo") != "" {
		t.Fatalf("record mutated on failure")
	}
	if got := stager.Tracker().Get("collegeLogo"); got != 0 {
		t.Fatalf("progress not reset on failure: %d", got)
	}
}

func TestStageFiles_AppendsInSelectionOrder(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()
	record["gallery"] = []any{"existing"}

	updated, err := stager.StageFiles(context.Background(), record, "gallery", []File{
		{Name: "a.png", Reader: strings.NewReader("first")},
		{Name: "b.png", Reader: strings.NewReader("second")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	gallery, _ := updated.List("gallery")
	want := []any{
		"existing",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("first")),
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("second")),
	}
	if diff := cmp.Diff(want, gallery); diff != "" {
		t.Fatalf("unexpected gallery (-want +got):\n%s", diff)
	}

	// Terminal state then reset after the delay window.
	if got := stager.Tracker().Get("gallery"); got != 100 && got != 0 {
		t.Fatalf("expected terminal or reset progress, got %d", got)
	}
	deadline := time.Now().Add(time.Second)
	for stager.Tracker().Get("gallery") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("progress never reset, stuck at %d", stager.Tracker().Get("gallery"))
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStageFiles_NestedListField(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()

	updated, err := stager.StageFiles(context.Background(), record, "placement.companies", []File{
		{Name: "logo.gif", Reader: strings.NewReader("gif")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	companies, _ := updated.List("placement.companies")
	if len(companies) != 1 {
		t.Fatalf("expected one staged company logo, got %d", len(companies))
	}
}

func TestStageFiles_PartialFailureLeavesListUntouched(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()
	record["certificates"] = []any{"keep"}

	updated, err := stager.StageFiles(context.Background(), record, "certificates", []File{
		{Name: "good.png", Reader: strings.NewReader("fine")},
		{Name: "bad.png", Reader: failingReader{}},
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
	certificates, _ := updated.List("certificates")
	if diff := cmp.Diff([]any{"keep"}, certificates); diff != "" {
		t.Fatalf("partial mutation happened (-want +got):\n%s", diff)
	}
	if got := stager.Tracker().Get("certificates"); got != 0 {
		t.Fatalf("progress not reset on failure: %d", got)
	}
}

func TestRemoveStaged(t *testing.T) {
	stager := newTestStager()
	record := formdata.DefaultCollegeRecord()
	record["gallery"] = []any{"a", "b", "c"}

	updated := stager.RemoveStaged(record, "gallery", 1)

	gallery, _ := updated.List("gallery")
	if diff := cmp.Diff([]any{"a", "c"}, gallery); diff != "" {
		t.Fatalf("unexpected gallery (-want +got):\n%s", diff)
	}
}
