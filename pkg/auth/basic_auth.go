package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/saturnines/gqlfetch/pkg/errors"
)

// BasicAuth implements the Handler interface for HTTP basic authentication
type BasicAuth struct {
	Username string // Username for Basic auth
	Password string // Password for Basic auth
}

// NewBasicAuth creates a new basic authentication handler
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

// ApplyAuth adds the basic auth header to the request
func (b *BasicAuth) ApplyAuth(req *http.Request) error {
	if b.Username == "" {
		return errors.WrapError(
			fmt.Errorf("username is required"),
			errors.ErrConfiguration,
			"apply basic auth",
		)
	}
	// password may legitimately be empty

	authStr := b.Username + ":" + b.Password
	encodedAuth := base64.StdEncoding.EncodeToString([]byte(authStr))
	req.Header.Set("Authorization", "Basic "+encodedAuth)

	return nil
}

// String returns a string representation of this auth method for testing
func (b *BasicAuth) String() string {
	return fmt.Sprintf("BasicAuth(username: %s)", b.Username)
}
