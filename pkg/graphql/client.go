package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/saturnines/gqlfetch/pkg/errors"
)

// HTTPDoer is the minimal interface a transport must satisfy; *http.Client
// works, as does any middleware wrapping one.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client executes GraphQL operations.
type Client struct {
	doer HTTPDoer
}

// NewClient wraps an HTTPDoer. A nil doer falls back to http.DefaultClient;
// no timeout is imposed at this layer.
func NewClient(doer HTTPDoer, opts ...ClientOption) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &Client{doer: doer}
	c.ApplyOptions(opts...)
	return c
}

// Execute sends a built request.
func (c *Client) Execute(req *http.Request) (*http.Response, error) {
	return c.doer.Do(req)
}

// Post builds and sends one request, then decodes the response envelope.
// Any failure along the way — transport, non-2xx status, body read, JSON
// decode — comes back as a single wrapped error; GraphQL errors inside a
// well-formed envelope do not.
func (c *Client) Post(ctx context.Context, builder *Builder) (*Response, error) {
	req, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPResponse, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WrapError(
			&HTTPError{StatusCode: resp.StatusCode, Status: resp.Status},
			errors.ErrHTTPResponse,
			"unexpected status code",
		)
	}

	var envelope Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPResponse, "decode response JSON")
	}

	return &envelope, nil
}
