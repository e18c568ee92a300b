package requestlog

import (
	"errors"

	"requestlog-backend/models"
)

var (
	// ErrDuplicateKey reports that another record already holds the same
	// (key, user) pair. It is the only storage error the protocol recovers
	// from; everything else is internal.
	ErrDuplicateKey = errors.New("requestlog: duplicate idempotency key")

	// ErrRecordNotFound reports a missing record on lookup.
	ErrRecordNotFound = errors.New("requestlog: request record not found")
)

// Store persists RequestRecords. The uniqueness constraint on
// (key, user_id) is the sole source of mutual exclusion for claims: no
// in-process locks exist anywhere in the protocol.
type Store interface {
	// InsertIfAbsent atomically creates rec, returning ErrDuplicateKey when
	// a record with the same non-null (key, user) pair already exists.
	// Exactly one of any set of concurrent inserts for the same pair wins.
	InsertIfAbsent(rec *models.RequestRecord) error

	// GetByKey loads the record claimed under (key, userID).
	GetByKey(key, userID string) (*models.RequestRecord, error)

	// Save persists changes to an existing record and refreshes its
	// updated_at timestamp (also used as the "re-requested" touch).
	Save(rec *models.RequestRecord) error
}
