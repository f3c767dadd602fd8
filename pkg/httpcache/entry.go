// Package httpcache caches rendered HTTP responses through the same
// cache manager as the service layer, mirroring each response key into
// the service-level invalidation group so one invalidation call clears
// both views.
package httpcache

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Entry is a cached HTTP response.
type Entry struct {
	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Header holds the response headers
	Header http.Header `json:"header"`

	// Body is the response body
	Body []byte `json:"body"`
}

func (e *Entry) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal response entry: %w", err)
	}
	return data, nil
}

func decodeEntry(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal response entry: %w", err)
	}
	return &entry, nil
}

// WriteTo replays the cached response onto w.
func (e *Entry) WriteTo(w http.ResponseWriter) error {
	for key, values := range e.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(e.StatusCode)
	_, err := w.Write(e.Body)
	return err
}
