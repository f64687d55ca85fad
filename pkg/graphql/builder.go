package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/saturnines/gqlfetch/pkg/auth"
	"github.com/saturnines/gqlfetch/pkg/errors"
)

// Builder constructs GraphQL HTTP requests.
type Builder struct {
	Endpoint    string
	Query       string
	Variables   map[string]interface{}
	Headers     map[string]string
	AuthHandler auth.Handler
}

// NewBuilder sets up a GraphQL Builder.
// Endpoint is the full URL of the GraphQL endpoint.
func NewBuilder(
	endpoint, query string,
	variables map[string]interface{},
	headers map[string]string,
	authHandler auth.Handler,
) *Builder {
	return &Builder{
		Endpoint:    endpoint,
		Query:       query,
		Variables:   variables,
		Headers:     headers,
		AuthHandler: authHandler,
	}
}

// Build creates the *http.Request with the JSON packet as body.
// Header order matters: the Content-Type constant goes first, configured
// headers second so they win on collision, and the auth handler runs last.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	packet := NewRequest(b.Query, b.Variables)
	buf, err := json.Marshal(packet)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "marshal request packet")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "create HTTP request")
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range b.Headers {
		req.Header.Set(k, v)
	}
	if b.AuthHandler != nil {
		if err := b.AuthHandler.ApplyAuth(req); err != nil {
			return nil, errors.WrapError(err, errors.ErrAuthentication, "apply auth")
		}
	}
	return req, nil
}
