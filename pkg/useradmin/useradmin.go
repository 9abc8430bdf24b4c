// Package useradmin manages console accounts: listing users, switching their
// roles, resetting passwords, and removing accounts. Every action requires the
// admin role; the auth service enforces the same rule server-side, this gate
// just fails fast with a clear error.
package useradmin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-collegecms/pkg/controller"
	"github.com/goliatone/go-collegecms/pkg/gateway"
)

// ErrNotAdmin reports a session without the admin role.
var ErrNotAdmin = errors.New("useradmin: admin role required")

// ErrSelfTarget reports an admin trying to demote or delete their own account.
var ErrSelfTarget = errors.New("useradmin: cannot target own account")

// minPasswordLength matches the auth service's reset rule.
const minPasswordLength = 6

// Gateway is the slice of the remote API user administration needs.
type Gateway interface {
	Users(ctx context.Context) ([]gateway.User, error)
	ChangeRole(ctx context.Context, id, role string) error
	ResetPassword(ctx context.Context, id, newPassword string) error
	DeleteUser(ctx context.Context, id string) error
}

// Option customises the service.
type Option func(*Service)

// WithGateway injects the remote API client.
func WithGateway(gw Gateway) Option {
	return func(s *Service) { s.gateway = gw }
}

// Service performs account administration for one console session.
type Service struct {
	gateway Gateway
	session controller.Session
}

// New constructs a user-administration service bound to a session.
func New(session controller.Session, options ...Option) (*Service, error) {
	s := &Service{session: session}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.gateway == nil {
		return nil, errors.New("useradmin: a gateway is required")
	}
	return s, nil
}

// Users lists every console account.
func (s *Service) Users(ctx context.Context) ([]gateway.User, error) {
	if !s.session.IsAdmin() {
		return nil, ErrNotAdmin
	}
	users, err := s.gateway.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("useradmin: list users: %w", err)
	}
	return users, nil
}

// ChangeRole switches an account between admin and content creator. Admins
// cannot change their own role; another admin has to.
func (s *Service) ChangeRole(ctx context.Context, id, role string) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}
	if id == s.session.UserID {
		return ErrSelfTarget
	}
	if role != controller.RoleAdmin && role != controller.RoleContentCreator {
		return fmt.Errorf("useradmin: unknown role %q", role)
	}
	if err := s.gateway.ChangeRole(ctx, id, role); err != nil {
		return fmt.Errorf("useradmin: change role for %q: %w", id, err)
	}
	return nil
}

// ResetPassword sets a new password for an account.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}
	if len(strings.TrimSpace(newPassword)) < minPasswordLength {
		return fmt.Errorf("useradmin: password must be at least %d characters", minPasswordLength)
	}
	if err := s.gateway.ResetPassword(ctx, id, newPassword); err != nil {
		return fmt.Errorf("useradmin: reset password for %q: %w", id, err)
	}
	return nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}
	if id == s.session.UserID {
		return ErrSelfTarget
	}
	if err := s.gateway.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("useradmin: delete user %q: %w", id, err)
	}
	return nil
}
