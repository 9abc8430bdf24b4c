// Package draft mirrors in-progress form records to durable local storage so
// an interrupted editing session survives a restart.
package draft

import (
	"strings"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

const (
	keyPrefix   = "collegeForm_"
	newDraftKey = "collegeForm_draft"
)

// Key derives the storage key for an editing session. Editing an existing
// remote entity uses a key scoped to that entity; a brand-new entry shares the
// fixed draft key.
func Key(sessionID string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return newDraftKey
	}
	return keyPrefix + sessionID
}

// Store is the key-value persistence behind draft snapshots. Load reports
// (nil, nil) when no snapshot exists; an unreadable snapshot is treated the
// same way, logged by the implementation rather than surfaced as fatal.
type Store interface {
	Load(key string) (formdata.Record, error)
	Save(key string, record formdata.Record) error
	Clear(key string) error
}
