package models

import (
	"time"

	"gorm.io/datatypes"
)

// RequestRecord is one logged request and, once the handler has finished,
// its replayable response. Params, Headers and Body are stored already
// masked; raw secrets never reach the database.
//
// Uniqueness spans (key, user_id). Both columns are nullable and Postgres
// treats NULLs as distinct, so keyless and anonymous rows never conflict —
// idempotency only binds authenticated requests that supplied a key.
type RequestRecord struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Key    *string `json:"key" gorm:"size:128;uniqueIndex:idx_requests_key_user,priority:1"`
	UserID *string `json:"user_id" gorm:"size:128;uniqueIndex:idx_requests_key_user,priority:2"`

	Scheme      string `json:"scheme" gorm:"size:8"`
	Path        string `json:"path" gorm:"size:255"`
	Method      string `json:"method" gorm:"size:10"`
	Encoding    string `json:"encoding" gorm:"size:100"`
	ContentType string `json:"content_type" gorm:"size:100"`

	Params  datatypes.JSON `json:"params" gorm:"type:jsonb"`
	Headers datatypes.JSON `json:"headers" gorm:"type:jsonb"`
	Body    datatypes.JSON `json:"body" gorm:"type:jsonb"`

	StatusCode *int `json:"status_code"`
	// Response is the versioned envelope written by requestlog.EncodeResponse.
	// Absent until the handler finalized; never partially written.
	Response []byte `json:"-" gorm:"type:bytea"`

	ResourceType *ResourceType `json:"resource_type" gorm:"size:64"`
	ResourceID   *string       `json:"resource_id" gorm:"size:128"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Replayable reports whether the record carries a finalized response.
func (r *RequestRecord) Replayable() bool {
	return len(r.Response) > 0
}
