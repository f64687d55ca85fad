package auth

import (
	"fmt"
	"sync"

	"github.com/saturnines/gqlfetch/pkg/config"
	"github.com/saturnines/gqlfetch/pkg/errors"
)

// Creator defines a function that creates an auth handler from config
type Creator func(*config.Auth) (Handler, error)

// Registry maintains a registry of auth handler creators
type Registry struct {
	creators map[config.AuthType]Creator
	mutex    sync.RWMutex
}

// NewRegistry creates a new auth registry with the default handlers
func NewRegistry() *Registry {
	registry := &Registry{
		creators: make(map[config.AuthType]Creator),
	}

	registry.Register(config.AuthTypeBasic, createBasicAuth)
	registry.Register(config.AuthTypeAPIKey, createAPIKeyAuth)
	registry.Register(config.AuthTypeBearer, createBearerAuth)
	registry.Register(config.AuthTypeOAuth2, createOAuth2Auth)
	return registry
}

// Register adds a new auth creator to the registry
func (r *Registry) Register(authType config.AuthType, creator Creator) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.creators[authType] = creator
}

// Create creates an auth handler based on the config
func (r *Registry) Create(authConfig *config.Auth) (Handler, error) {
	r.mutex.RLock()
	creator, exists := r.creators[authConfig.Type]
	r.mutex.RUnlock()

	if !exists {
		return nil, errors.WrapError(
			fmt.Errorf("unsupported auth type: %s", authConfig.Type),
			errors.ErrConfiguration,
			"invalid auth type",
		)
	}

	return creator(authConfig)
}

var defaultRegistry = NewRegistry()

// CreateHandler creates an auth handler based on configuration using the
// default registry. A nil config means no authentication and no handler.
func CreateHandler(authConfig *config.Auth) (Handler, error) {
	if authConfig == nil {
		return nil, nil
	}

	handler, err := defaultRegistry.Create(authConfig)
	if err != nil {
		return nil, errors.WrapError(
			err,
			errors.ErrConfiguration,
			"failed to create auth handler",
		)
	}
	return handler, nil
}

// RegisterHandler allows registering custom auth handlers to the default registry
func RegisterHandler(authType config.AuthType, creator Creator) {
	defaultRegistry.Register(authType, creator)
}
