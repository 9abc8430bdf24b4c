package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Console roles as the auth service issues them.
const (
	RoleAdmin          = "admin"
	RoleContentCreator = "content-creator"
)

// PermissionApproveColleges lets a content creator act on the review queue.
const PermissionApproveColleges = "approveColleges"

// Session identifies the console user for one editing session. It is passed
// explicitly into everything that needs it; nothing in the module reads
// ambient globals for identity or role.
type Session struct {
	UserID      string
	Role        string
	Permissions string
	Token       string
}

// sessionClaims is the JWT payload the auth service signs.
type sessionClaims struct {
	Role        string `json:"role"`
	Permissions string `json:"permissions"`
	jwt.RegisteredClaims
}

// SessionFromToken validates a bearer token against the shared secret and
// builds the session from its claims.
func SessionFromToken(token string, secret []byte) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, errors.New("controller: token is required")
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("controller: parse token: %w", err)
	}
	if !parsed.Valid {
		return Session{}, errors.New("controller: token is not valid")
	}

	return Session{
		UserID:      claims.Subject,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		Token:       token,
	}, nil
}

// CanApprove reports whether the session may act on the review queue: every
// role except content creators, plus content creators explicitly granted the
// approval permission.
func (s Session) CanApprove() bool {
	if s.Role != RoleContentCreator {
		return true
	}
	return strings.Contains(s.Permissions, PermissionApproveColleges)
}

// IsAdmin reports whether the session holds the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
