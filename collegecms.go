// Package collegecms re-exports the pieces most integrations need: the form
// record and mutation engine, the session controller, and the remote gateway.
// Deeper customisation lives in the pkg/ subpackages.
package collegecms

import (
	"context"

	"github.com/goliatone/go-collegecms/pkg/catalog"
	"github.com/goliatone/go-collegecms/pkg/controller"
	"github.com/goliatone/go-collegecms/pkg/formdata"
	"github.com/goliatone/go-collegecms/pkg/gateway"
)

// Record is the in-memory tree of editable values for one college entry.
type Record = formdata.Record

// Session identifies the console user for one editing session.
type Session = controller.Session

// ValidationErrors maps field names to inline submit-gate messages.
type ValidationErrors = controller.ValidationErrors

// CatalogEntry is one row of the remote course catalog.
type CatalogEntry = catalog.Entry

// CollegeSummary is the dashboard listing shape.
type CollegeSummary = gateway.CollegeSummary

// User is one console account.
type User = gateway.User

// DefaultRecord builds the schema-default record every session starts from.
func DefaultRecord() Record {
	return formdata.DefaultCollegeRecord()
}

// NewController wires a form controller for one editing session.
func NewController(options ...controller.Option) (*controller.Controller, error) {
	return controller.New(options...)
}

// NewGateway builds a remote API client.
func NewGateway(options ...gateway.Option) (*gateway.Client, error) {
	return gateway.New(options...)
}

// SessionFromToken validates a bearer token and builds the session from its
// claims.
func SessionFromToken(token string, secret []byte) (Session, error) {
	return controller.SessionFromToken(token, secret)
}

// Edit is the simplest entry point: build a controller over an API client and
// hydrate it for the given entry (blank id starts a new one).
func Edit(ctx context.Context, client *gateway.Client, session Session, collegeID string, options ...controller.Option) (*controller.Controller, error) {
	base := []controller.Option{
		controller.WithGateway(client),
		controller.WithSession(session),
	}
	form, err := controller.New(append(base, options...)...)
	if err != nil {
		return nil, err
	}
	if err := form.Hydrate(ctx, collegeID); err != nil {
		return nil, err
	}
	return form, nil
}
