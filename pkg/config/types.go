package config

// Config holds everything a fetcher needs to reach a GraphQL server:
// the endpoint URL and the default header set applied to every request.
// A Config is replaced wholesale when it changes; it is never merged.
type Config struct {
	Name     string            `yaml:"name,omitempty"`     // Optional identifier (used in logs)
	Endpoint string            `yaml:"endpoint"`           // Required GraphQL endpoint URL
	Headers  map[string]string `yaml:"headers,omitempty"`  // Headers added to every request
	Auth     *Auth             `yaml:"auth,omitempty"`     // Optional authentication
}

// Default returns the configuration used when no provider is in scope:
// an empty endpoint and an empty header map. A request against it fails
// at the HTTP layer, not here.
func Default() Config {
	return Config{
		Headers: map[string]string{},
	}
}

// Clone returns a deep copy so holders of the returned value can never
// mutate the original's header map.
func (c Config) Clone() Config {
	out := c
	if c.Headers != nil {
		out.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			out.Headers[k] = v
		}
	}
	if c.Auth != nil {
		authCopy := *c.Auth
		out.Auth = &authCopy
	}
	return out
}

// Auth defines auth methods.
type Auth struct {
	Type   AuthType    `yaml:"type"`              // Required authentication type
	Basic  *BasicAuth  `yaml:"basic,omitempty"`   // Basic authentication
	APIKey *APIKeyAuth `yaml:"api_key,omitempty"` // API key authentication
	Bearer *BearerAuth `yaml:"bearer,omitempty"`  // Bearer token authentication
	OAuth2 *OAuth2Auth `yaml:"oauth2,omitempty"`  // OAuth2 authentication
}

// AuthType defines current supported authentication types
type AuthType string

const (
	AuthTypeBasic  AuthType = "basic"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeOAuth2 AuthType = "oauth2"
)

// BasicAuth contains auth credentials for the endpoint
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// APIKeyAuth contains API key details
type APIKeyAuth struct {
	Header     string `yaml:"header,omitempty"`      // Header name
	QueryParam string `yaml:"query_param,omitempty"` // Query parameter name
	Value      string `yaml:"value"`                 // API key value
}

// BearerAuth contains a static bearer token
type BearerAuth struct {
	Token string `yaml:"token"`
}

// OAuth2Auth contains OAuth2 auth details
type OAuth2Auth struct {
	TokenURL      string            `yaml:"token_url"`
	ClientID      string            `yaml:"client_id"`
	ClientSecret  string            `yaml:"client_secret"`
	Scope         string            `yaml:"scope,omitempty"`
	ExtraParams   map[string]string `yaml:"extra_params,omitempty"`
	RefreshBefore int               `yaml:"refresh_before,omitempty"` // Seconds before expiry to refresh
}
