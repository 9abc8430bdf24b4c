package gateway

import (
	"context"
	"errors"
)

// User is one console account as the auth service reports it.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// userEnvelope is the success wrapper the auth routes use.
type userEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    []User `json:"data"`
}

type singleUserEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    User   `json:"data"`
}

// Users lists every console account.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var envelope userEnvelope
	if err := c.do(ctx, "listUsers", nil, nil, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, envelopeError("listUsers", envelope.Error)
	}
	return envelope.Data, nil
}

// UserByID fetches one account, used to resolve approver emails on the
// dashboard.
func (c *Client) UserByID(ctx context.Context, id string) (User, error) {
	var envelope singleUserEnvelope
	if err := c.do(ctx, "getUser", map[string]string{"id": id}, nil, &envelope); err != nil {
		return User{}, err
	}
	if !envelope.Success {
		return User{}, envelopeError("getUser", envelope.Error)
	}
	return envelope.Data, nil
}

// ChangeRole updates a user's console role.
func (c *Client) ChangeRole(ctx context.Context, id, role string) error {
	var envelope userEnvelope
	if err := c.do(ctx, "changeRole", nil, map[string]any{"id": id, "role": role}, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return envelopeError("changeRole", envelope.Error)
	}
	return nil
}

// ResetPassword sets a new password for a user.
func (c *Client) ResetPassword(ctx context.Context, id, newPassword string) error {
	var envelope userEnvelope
	if err := c.do(ctx, "resetPassword", nil, map[string]any{"id": id, "newPassword": newPassword}, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return envelopeError("resetPassword", envelope.Error)
	}
	return nil
}

// DeleteUser removes a console account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "deleteUser", map[string]string{"id": id}, nil, nil)
}

func envelopeError(op, message string) error {
	if message == "" {
		message = "unknown error"
	}
	return errors.New("gateway: " + op + ": " + message)
}
