package useradmin

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-collegecms/pkg/controller"
	"github.com/goliatone/go-collegecms/pkg/gateway"
)

type fakeGateway struct {
	users   []gateway.User
	listErr error

	roleChanges map[string]string
	resets      map[string]string
	deleted     []string
}

func (g *fakeGateway) Users(ctx context.Context) ([]gateway.User, error) {
	return g.users, g.listErr
}

func (g *fakeGateway) ChangeRole(ctx context.Context, id, role string) error {
	if g.roleChanges == nil {
		g.roleChanges = make(map[string]string)
	}
	g.roleChanges[id] = role
	return nil
}

func (g *fakeGateway) ResetPassword(ctx context.Context, id, newPassword string) error {
	if g.resets == nil {
		g.resets = make(map[string]string)
	}
	g.resets[id] = newPassword
	return nil
}

func (g *fakeGateway) DeleteUser(ctx context.Context, id string) error {
	g.deleted = append(g.deleted, id)
	return nil
}

func newService(t *testing.T, session controller.Session, gw *fakeGateway) *Service {
	t.Helper()
	s, err := New(session, WithGateway(gw))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func adminSession() controller.Session {
	return controller.Session{UserID: "admin-1", Role: controller.RoleAdmin}
}

func TestUsersRequiresAdmin(t *testing.T) {
	gw := &fakeGateway{users: []gateway.User{{ID: "u-1", Email: "a@example.com"}}}

	creator := newService(t, controller.Session{UserID: "u-1", Role: controller.RoleContentCreator}, gw)
	if _, err := creator.Users(context.Background()); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("Users() error = %v, want ErrNotAdmin", err)
	}

	admin := newService(t, adminSession(), gw)
	users, err := admin.Users(context.Background())
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if diff := cmp.Diff(gw.users, users); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeRole(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(t, adminSession(), gw)
	ctx := context.Background()

	if err := s.ChangeRole(ctx, "u-2", controller.RoleAdmin); err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}
	if gw.roleChanges["u-2"] != controller.RoleAdmin {
		t.Fatalf("roleChanges = %v", gw.roleChanges)
	}

	if err := s.ChangeRole(ctx, "admin-1", controller.RoleContentCreator); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("self role change error = %v, want ErrSelfTarget", err)
	}
	if err := s.ChangeRole(ctx, "u-2", "superuser"); err == nil {
		t.Fatal("unknown role accepted")
	}
}

func TestResetPassword(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(t, adminSession(), gw)
	ctx := context.Background()

	if err := s.ResetPassword(ctx, "u-2", "short"); err == nil {
		t.Fatal("five-character password accepted")
	}
	if err := s.ResetPassword(ctx, "u-2", "longenough"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if gw.resets["u-2"] != "longenough" {
		t.Fatalf("resets = %v", gw.resets)
	}
}

func TestDeleteUser(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(t, adminSession(), gw)
	ctx := context.Background()

	if err := s.DeleteUser(ctx, "admin-1"); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("self delete error = %v, want ErrSelfTarget", err)
	}
	if err := s.DeleteUser(ctx, "u-3"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if diff := cmp.Diff([]string{"u-3"}, gw.deleted); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
}
