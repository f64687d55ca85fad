package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigLoader defines the interface for loading configs
type ConfigLoader interface {
	Load(path string) (*Config, error)
	Parse(data []byte) (*Config, error)
}

type ValidationError struct {
	Field   string
	Message string
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator interface {
	Validate(cfg *Config) []ValidationError
}

// DefaultValueSetter handles the interface for setting default values
type DefaultValueSetter interface {
	SetDefaults(cfg *Config)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// Loader loads Config values from YAML, expanding variables, filling
// defaults and running validators in order.
type Loader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewLoader creates a new Loader with the given components
func NewLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *Loader {
	return &Loader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// Load a new client config from a YAML file
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *Loader) Parse(data []byte) (*Config, error) {
	// Expand variables if an expander is configured
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	// Unmarshal YAML data into a Config struct
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Set default values if a default setter is configured
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&cfg)
	}

	// Validate the configuration
	var allErrors []ValidationError
	for _, validator := range l.validators {
		errors := validator.Validate(&cfg)
		allErrors = append(allErrors, errors...)
	}

	// Return any validation errors if there are any
	if len(allErrors) > 0 {
		return nil, fmt.Errorf("validation errors: %v", allErrors)
	}

	return &cfg, nil
}

// ConfigDefaults implements DefaultValueSetter for Config
type ConfigDefaults struct{}

// SetDefaults sets default values for Config
func (d *ConfigDefaults) SetDefaults(cfg *Config) {
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
}

// RequiredFieldValidator validates required fields for the client
type RequiredFieldValidator struct{}

// Validate checks that all required fields are present
func (v *RequiredFieldValidator) Validate(cfg *Config) []ValidationError {
	var errors []ValidationError

	if cfg.Endpoint == "" {
		errors = append(errors, ValidationError{Field: "endpoint", Message: "is required"})
		return errors
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		errors = append(errors, ValidationError{Field: "endpoint", Message: fmt.Sprintf("must be an absolute URL, got %q", cfg.Endpoint)})
	}

	return errors
}

// AuthValidator handles authentication validation
type AuthValidator struct{}

// Validate checks that authentication configuration is valid
func (v *AuthValidator) Validate(cfg *Config) []ValidationError {
	var errors []ValidationError

	// Skip validation if auth is not configured
	if cfg.Auth == nil {
		return errors
	}

	switch cfg.Auth.Type {
	case AuthTypeBasic:
		if cfg.Auth.Basic == nil {
			errors = append(errors, ValidationError{Field: "auth.basic", Message: "is required for basic auth"})
		} else {
			if cfg.Auth.Basic.Username == "" {
				errors = append(errors, ValidationError{Field: "auth.basic.username", Message: "is required for basic auth"})
			}
			if cfg.Auth.Basic.Password == "" {
				errors = append(errors, ValidationError{Field: "auth.basic.password", Message: "is required for basic auth"})
			}
		}
	case AuthTypeAPIKey:
		if cfg.Auth.APIKey == nil {
			errors = append(errors, ValidationError{Field: "auth.api_key", Message: "is required for api_key auth"})
		} else {
			if cfg.Auth.APIKey.Value == "" {
				errors = append(errors, ValidationError{Field: "auth.api_key.value", Message: "is required for api_key auth"})
			}
			if cfg.Auth.APIKey.Header == "" && cfg.Auth.APIKey.QueryParam == "" {
				errors = append(errors, ValidationError{Field: "auth.api_key", Message: "either header or query_param must be specified for api_key auth"})
			}
		}
	case AuthTypeBearer:
		if cfg.Auth.Bearer == nil || cfg.Auth.Bearer.Token == "" {
			errors = append(errors, ValidationError{Field: "auth.bearer.token", Message: "is required for bearer auth"})
		}
	case AuthTypeOAuth2:
		if cfg.Auth.OAuth2 == nil {
			errors = append(errors, ValidationError{Field: "auth.oauth2", Message: "is required for oauth2 auth"})
		} else {
			if cfg.Auth.OAuth2.TokenURL == "" {
				errors = append(errors, ValidationError{Field: "auth.oauth2.token_url", Message: "is required for oauth2 auth"})
			}
			if cfg.Auth.OAuth2.ClientID == "" {
				errors = append(errors, ValidationError{Field: "auth.oauth2.client_id", Message: "is required for oauth2 auth"})
			}
			if cfg.Auth.OAuth2.ClientSecret == "" {
				errors = append(errors, ValidationError{Field: "auth.oauth2.client_secret", Message: "is required for oauth2 auth"})
			}
		}
	default:
		errors = append(errors, ValidationError{Field: "auth.type", Message: fmt.Sprintf("unknown auth type: %s", cfg.Auth.Type)})
	}

	return errors
}
