package config

import "context"

type contextKey struct{}

// NewContext returns a context carrying cfg for any fetcher created
// further down a call tree. The value is cloned going in, so later
// mutations of cfg do not leak into the scope.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	if cfg == nil {
		return ctx
	}
	c := cfg.Clone()
	return context.WithValue(ctx, contextKey{}, &c)
}

// FromContext returns the Config carried by ctx. A context with no
// carrier yields Default(): empty endpoint, empty headers.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		c := cfg.Clone()
		return &c
	}
	c := Default()
	return &c
}
