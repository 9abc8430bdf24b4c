package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-collegecms/pkg/catalog"
	"github.com/goliatone/go-collegecms/pkg/formdata"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(WithBaseURL(server.URL + "/api"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected an error for a missing base URL")
	}
}

func TestCourses_DecodesSpacedKeys(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/courses" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"Stream":"Engineering","Level":"UG","Degree Name":"B.Tech","Specialization":"CS","Course Name":"B.Tech CS"}
		]`))
	}))

	entries, err := client.Courses(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []catalog.Entry{{
		Stream: "Engineering", Level: "UG", DegreeName: "B.Tech",
		Specialization: "CS", CourseName: "B.Tech CS",
	}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestCreateCollege_SendsShapedPayloadAndAuth(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/colleges" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Fatalf("missing bearer token, got %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Fatalf("missing request id")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	client, err := New(WithBaseURL(server.URL+"/api"), WithToken("token-123"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	record := formdata.DefaultCollegeRecord()
	record["collegeName"] = "IIT Delhi"
	if err := client.CreateCollege(context.Background(), ShapeSubmission(record, "user-9")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if received["createdBy"] != "user-9" {
		t.Fatalf("createdBy not set: %v", received["createdBy"])
	}
	rows := received["coursesAndFee"].([]any)
	row := rows[0].(map[string]any)
	for _, key := range []string{"CourseName", "DegreeName", "Specialization", "stream", "level", "fee", "course"} {
		if _, ok := row[key]; !ok {
			t.Fatalf("shaped row missing key %q: %#v", key, row)
		}
	}
	if _, isNumber := row["fee"].(float64); !isNumber {
		t.Fatalf("fee was not numeric: %T", row["fee"])
	}
}

func TestUpdateCollege_UsesPutWithID(t *testing.T) {
	var method, path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))

	if err := client.UpdateCollege(context.Background(), "abc", map[string]any{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if method != http.MethodPut || path != "/api/colleges/abc" {
		t.Fatalf("unexpected request: %s %s", method, path)
	}
}

func TestReviewCollege_ApproveAndRejectBodies(t *testing.T) {
	var bodies []map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/colleges/approve/xyz" || r.Method != http.MethodPut {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx := context.Background()
	if err := client.ReviewCollege(ctx, "xyz", "u-7", StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := client.ReviewCollege(ctx, "xyz", "u-7", StatusRejected, "missing fee table"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if bodies[0]["status"] != StatusApproved || bodies[0]["userId"] != "u-7" {
		t.Fatalf("unexpected approve body: %#v", bodies[0])
	}
	if _, hasNotes := bodies[0]["notes"]; hasNotes {
		t.Fatalf("approve body should not carry notes: %#v", bodies[0])
	}
	if bodies[1]["status"] != StatusRejected || bodies[1]["userId"] != "u-7" || bodies[1]["notes"] != "missing fee table" {
		t.Fatalf("unexpected reject body: %#v", bodies[1])
	}
}

func TestDo_SurfacesStatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such college"}`))
	}))

	_, err := client.College(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected a 404 StatusError, got %v", err)
	}
	se := err.(*StatusError)
	if se.Message != "no such college" {
		t.Fatalf("server message lost: %q", se.Message)
	}
}

func TestUsers_UnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/user" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"_id":"u1","username":"asha","email":"asha@example.com","role":"admin"}]}`))
	}))

	users, err := client.Users(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(users) != 1 || users[0].Username != "asha" || users[0].Role != "admin" {
		t.Fatalf("unexpected users: %#v", users)
	}
}

func TestUsers_EnvelopeFailureIsAnError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"forbidden"}`))
	}))

	if _, err := client.Users(context.Background()); err == nil {
		t.Fatalf("expected an error for a failed envelope")
	}
}

func TestShapeSubmission_PreservesCasingQuirk(t *testing.T) {
	record := formdata.DefaultCollegeRecord()
	rows, _ := record.List("coursesAndFee")
	row := rows[0].(formdata.Record)
	row["stream"] = "Engineering"
	row["level"] = "UG"
	row["degreeName"] = "B.Tech"
	row["specialization"] = "CS"
	row["courseName"] = "B.Tech CS"
	row["course"] = "ENG - B.Tech in B.Tech CS"
	row["duration"] = "4"
	row["fee"] = "250000"

	payload := ShapeSubmission(record, "creator-1")

	shaped := payload["coursesAndFee"].([]any)[0].(map[string]any)
	want := map[string]any{
		"CourseName":     "B.Tech CS",
		"stream":         "Engineering",
		"level":          "UG",
		"DegreeName":     "B.Tech",
		"Specialization": "CS",
		"duration":       "4",
		"fee":            float64(250000),
		"course":         "ENG - B.Tech in B.Tech CS",
	}
	if diff := cmp.Diff(want, shaped); diff != "" {
		t.Fatalf("unexpected shaped row (-want +got):\n%s", diff)
	}

	// Shaping never mutates the in-memory record.
	if row["fee"] != "250000" {
		t.Fatalf("record row mutated: %#v", row)
	}
}

func TestFeeNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"250000", 250000},
		{"", 0},
		{"not-a-number", 0},
		{float64(12.5), 12.5},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := feeNumber(tc.in); got != tc.want {
			t.Fatalf("feeNumber(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
