package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the standard GraphQL response envelope. The errors field is
// decoded for callers to inspect but is never classified as a failure by
// this layer: an HTTP 200 carrying errors and a null data field is a
// successful response whose Data is null.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// ResponseError is one entry of the envelope's errors list.
type ResponseError struct {
	Message   string     `json:"message"`
	Path      []any      `json:"path,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

func (e ResponseError) Error() string {
	return e.Message
}

// Location points into the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// HasData reports whether the data field is present and not the JSON
// literal null.
func (r *Response) HasData() bool {
	return len(r.Data) > 0 && !bytes.Equal(r.Data, []byte("null"))
}

// DecodeData unmarshals the data field into v. Absent or null data is a
// no-op so callers can decode unconditionally after a successful post.
func (r *Response) DecodeData(v interface{}) error {
	if !r.HasData() {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Field resolves a dotted path (e.g. "user.name") inside the decoded data
// object. The bool result reports whether the full path existed.
func (r *Response) Field(path string) (interface{}, bool) {
	if !r.HasData() {
		return nil, false
	}
	var data map[string]interface{}
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return nil, false
	}
	return extractField(data, path)
}

// extractField extracts a field from a map using a dotted path
func extractField(data map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}

	// Simple case - no dots
	if !strings.Contains(path, ".") {
		value, ok := data[path]
		return value, ok
	}

	// Nested case - traverse the path
	parts := strings.Split(path, ".")
	var current interface{} = data

	for _, part := range parts {
		currentMap, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}

		current, ok = currentMap[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// HTTPError wraps non-2xx HTTP responses
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}
