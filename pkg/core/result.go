package core

import (
	"encoding/json"

	"github.com/saturnines/gqlfetch/pkg/graphql"
)

// Result is a point-in-time snapshot of a fetcher's observable state.
// Consumers branch on Loading, then Err, then Data to render an outcome.
type Result struct {
	Data    json.RawMessage
	Loading bool
	Err     error
}

// HasData reports whether the snapshot carries a data payload.
func (r Result) HasData() bool {
	resp := graphql.Response{Data: r.Data}
	return resp.HasData()
}

// DecodeData unmarshals the data payload into v. Absent or null data is a
// no-op.
func (r Result) DecodeData(v interface{}) error {
	resp := graphql.Response{Data: r.Data}
	return resp.DecodeData(v)
}

// Field resolves a dotted path (e.g. "viewer.name") inside the data payload.
func (r Result) Field(path string) (interface{}, bool) {
	resp := graphql.Response{Data: r.Data}
	return resp.Field(path)
}
