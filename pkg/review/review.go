// Package review drives the dashboard side of the console: listing submitted
// college entries, approving or rejecting them, and pruning dead entries.
// Every action is permission-gated by the caller's session.
package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-collegecms/pkg/controller"
	"github.com/goliatone/go-collegecms/pkg/gateway"
)

// ErrNotPermitted reports a session that may not act on the review queue.
var ErrNotPermitted = errors.New("review: session may not act on the review queue")

// ErrReasonRequired reports a rejection attempted without a reason. The reason
// travels to the author as reviewer notes, so a blank one is never accepted.
var ErrReasonRequired = errors.New("review: a rejection reason is required")

// Gateway is the slice of the remote API the dashboard needs.
type Gateway interface {
	Colleges(ctx context.Context) ([]gateway.CollegeSummary, error)
	CollegesByUser(ctx context.Context, userID string) ([]gateway.CollegeSummary, error)
	ReviewCollege(ctx context.Context, id, reviewerID, status, notes string) error
	DeleteCollege(ctx context.Context, id string) error
	UserByID(ctx context.Context, id string) (gateway.User, error)
}

// Entry is one dashboard row: the remote summary plus the resolved approver
// identity when the entry has been acted on.
type Entry struct {
	gateway.CollegeSummary
	ApproverEmail string
}

// Option customises the service.
type Option func(*Service)

// WithGateway injects the remote API client.
func WithGateway(gw Gateway) Option {
	return func(s *Service) { s.gateway = gw }
}

// Service lists and transitions college entries for one console session.
type Service struct {
	gateway Gateway
	session controller.Session
}

// New constructs a review service bound to a session.
func New(session controller.Session, options ...Option) (*Service, error) {
	s := &Service{session: session}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.gateway == nil {
		return nil, errors.New("review: a gateway is required")
	}
	return s, nil
}

// List returns the dashboard rows the session may see: reviewers see every
// entry, content creators only their own. Pending entries sort first so the
// queue surfaces work before history.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	var (
		summaries []gateway.CollegeSummary
		err       error
	)
	if s.session.CanApprove() {
		summaries, err = s.gateway.Colleges(ctx)
	} else {
		summaries, err = s.gateway.CollegesByUser(ctx, s.session.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("review: list colleges: %w", err)
	}

	entries := make([]Entry, len(summaries))
	approvers := make(map[string]string)
	for i, summary := range summaries {
		entries[i] = Entry{CollegeSummary: summary}
		if summary.ApprovedBy == "" {
			continue
		}
		email, ok := approvers[summary.ApprovedBy]
		if !ok {
			user, lookupErr := s.gateway.UserByID(ctx, summary.ApprovedBy)
			if lookupErr != nil {
				// Not worth failing the whole list over; the raw id shows.
				approvers[summary.ApprovedBy] = ""
				continue
			}
			email = user.Email
			approvers[summary.ApprovedBy] = email
		}
		entries[i].ApproverEmail = email
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return statusRank(entries[i].Status) < statusRank(entries[j].Status)
	})
	return entries, nil
}

// Pending filters the dashboard rows down to the actionable queue. An entry
// with no status at all counts as pending.
func (s *Service) Pending(ctx context.Context) ([]Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := entries[:0:0]
	for _, entry := range entries {
		if IsPending(entry.Status) {
			pending = append(pending, entry)
		}
	}
	return pending, nil
}

// Approve transitions an entry to approved, attributed to the acting reviewer.
func (s *Service) Approve(ctx context.Context, id string) error {
	if !s.session.CanApprove() {
		return ErrNotPermitted
	}
	if err := s.gateway.ReviewCollege(ctx, id, s.session.UserID, gateway.StatusApproved, ""); err != nil {
		return fmt.Errorf("review: approve %q: %w", id, err)
	}
	return nil
}

// Reject transitions an entry to rejected, sending the reason to the author as
// reviewer notes.
func (s *Service) Reject(ctx context.Context, id, reason string) error {
	if !s.session.CanApprove() {
		return ErrNotPermitted
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if err := s.gateway.ReviewCollege(ctx, id, s.session.UserID, gateway.StatusRejected, reason); err != nil {
		return fmt.Errorf("review: reject %q: %w", id, err)
	}
	return nil
}

// Delete removes an entry entirely. Content creators may delete their own
// entries; everyone else needs review rights.
func (s *Service) Delete(ctx context.Context, entry Entry) error {
	if !s.session.CanApprove() && entry.CreatedBy != s.session.UserID {
		return ErrNotPermitted
	}
	if err := s.gateway.DeleteCollege(ctx, entry.ID); err != nil {
		return fmt.Errorf("review: delete %q: %w", entry.ID, err)
	}
	return nil
}

// IsPending reports whether a status string counts as awaiting review.
func IsPending(status string) bool {
	return status == "" || status == gateway.StatusPending
}

func statusRank(status string) int {
	switch status {
	case "", gateway.StatusPending:
		return 0
	case gateway.StatusRejected:
		return 1
	default:
		return 2
	}
}
