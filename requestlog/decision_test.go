package requestlog_test

import (
	"strings"
	"testing"

	"requestlog-backend/requestlog"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	longKey := strings.Repeat("k", requestlog.MaxKeyLength+1)

	tests := []struct {
		name     string
		userID   string
		method   string
		key      string
		allows   bool
		wantKind requestlog.DecisionKind
		wantErr  *requestlog.Error
	}{
		{"no key is never enforced", "u1", "POST", "", true, requestlog.NotApplicable, nil},
		{"no key against disabled endpoint passes", "u1", "POST", "", false, requestlog.NotApplicable, nil},
		{"key against disabled endpoint rejected", "u1", "POST", "abc", false, requestlog.Rejected, requestlog.ErrIdempotencyNotSupported},
		{"anonymous key against disabled endpoint rejected", "", "POST", "abc", false, requestlog.Rejected, requestlog.ErrIdempotencyNotSupported},
		{"overlong key rejected", "u1", "POST", longKey, true, requestlog.Rejected, requestlog.ErrIdempotencyKeyTooLong},
		{"anonymous never applicable", "", "POST", "abc", true, requestlog.NotApplicable, nil},
		{"GET never applicable", "u1", "GET", "abc", true, requestlog.NotApplicable, nil},
		{"DELETE never applicable", "u1", "DELETE", "abc", true, requestlog.NotApplicable, nil},
		{"POST applicable", "u1", "POST", "abc", true, requestlog.Applicable, nil},
		{"PUT applicable", "u1", "PUT", "abc", true, requestlog.Applicable, nil},
		{"PATCH applicable", "u1", "PATCH", "abc", true, requestlog.Applicable, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := requestlog.Decide(tt.userID, tt.method, tt.key, tt.allows)
			assert.Equal(t, tt.wantKind, d.Kind)
			if tt.wantKind == requestlog.Applicable {
				assert.Equal(t, tt.key, d.Key)
			}
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, d.Err)
			}
		})
	}
}
