package requestlog

import (
	"encoding/json"
	"fmt"
)

// responseFormatVersion guards the stored envelope against silent format
// drift; DecodeResponse refuses anything it does not understand.
const responseFormatVersion = 1

// HeaderField is one response header. A list (not a map) preserves
// duplicates and order across replays.
type HeaderField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StoredResponse is the versioned, inspectable envelope persisted on a
// RequestRecord: enough to reconstruct status, headers and body without
// any language-specific object serialization.
type StoredResponse struct {
	Version    int           `json:"version"`
	StatusCode int           `json:"status_code"`
	Headers    []HeaderField `json:"headers,omitempty"`
	Body       []byte        `json:"body,omitempty"`
}

// EncodeResponse serializes a finalized response into the envelope.
func EncodeResponse(statusCode int, headers []HeaderField, body []byte) ([]byte, error) {
	if statusCode == 0 {
		return nil, fmt.Errorf("requestlog: cannot encode response without a status code")
	}
	return json.Marshal(StoredResponse{
		Version:    responseFormatVersion,
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	})
}

// DecodeResponse parses a stored envelope. A corrupted payload or an
// unknown version is an error; a replay must never degrade into an empty
// response.
func DecodeResponse(data []byte) (*StoredResponse, error) {
	var sr StoredResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("requestlog: corrupted stored response: %w", err)
	}
	if sr.Version != responseFormatVersion {
		return nil, fmt.Errorf("requestlog: unsupported stored response version %d", sr.Version)
	}
	if sr.StatusCode == 0 {
		return nil, fmt.Errorf("requestlog: stored response missing status code")
	}
	return &sr, nil
}
