package gateway

import (
	"context"

	"github.com/goliatone/go-collegecms/pkg/catalog"
)

// College review statuses as the remote API stores them. An entry with no
// status at all counts as pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// CollegeSummary is the listing shape the dashboard consumes. Raw carries the
// full entity for preview rendering.
type CollegeSummary struct {
	ID          string `json:"_id"`
	CollegeName string `json:"collegeName"`
	Status      string `json:"status"`
	CreatedBy   string `json:"createdBy"`
	ApprovedBy  string `json:"approvedBy"`
	Notes       string `json:"notes"`
}

// Courses fetches the full course catalog.
func (c *Client) Courses(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := c.do(ctx, "listCourses", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// College fetches the full entity for edit-mode hydration.
func (c *Client) College(ctx context.Context, id string) (map[string]any, error) {
	var entity map[string]any
	if err := c.do(ctx, "getCollege", map[string]string{"id": id}, nil, &entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Colleges lists every entry across all statuses.
func (c *Client) Colleges(ctx context.Context) ([]CollegeSummary, error) {
	var list []CollegeSummary
	if err := c.do(ctx, "listColleges", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CollegesByUser lists the entries one content creator owns.
func (c *Client) CollegesByUser(ctx context.Context, userID string) ([]CollegeSummary, error) {
	var list []CollegeSummary
	if err := c.do(ctx, "listCollegesByUser", map[string]string{"userId": userID}, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateCollege submits a new entry. The payload must already be shaped by
// ShapeSubmission.
func (c *Client) CreateCollege(ctx context.Context, payload map[string]any) error {
	return c.do(ctx, "createCollege", nil, payload, nil)
}

// UpdateCollege replaces an existing entry.
func (c *Client) UpdateCollege(ctx context.Context, id string, payload map[string]any) error {
	return c.do(ctx, "updateCollege", map[string]string{"id": id}, payload, nil)
}

// DeleteCollege removes an entry.
func (c *Client) DeleteCollege(ctx context.Context, id string) error {
	return c.do(ctx, "deleteCollege", map[string]string{"id": id}, nil, nil)
}

// ReviewCollege transitions an entry's review status. reviewerID identifies
// the acting user so the backend can record approvedBy; notes carry the
// rejection reason when status is rejected.
func (c *Client) ReviewCollege(ctx context.Context, id, reviewerID, status, notes string) error {
	payload := map[string]any{"userId": reviewerID, "status": status}
	if notes != "" {
		payload["notes"] = notes
	}
	return c.do(ctx, "reviewCollege", map[string]string{"id": id}, payload, nil)
}
