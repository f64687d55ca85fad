package core

import (
	"github.com/sirupsen/logrus"

	"github.com/saturnines/gqlfetch/pkg/auth"
	"github.com/saturnines/gqlfetch/pkg/graphql"
)

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithVariables sets the default variable set sent when a trigger has no
// overrides. The map is copied, so later mutation by the caller has no
// effect on the fetcher.
func WithVariables(variables map[string]interface{}) FetcherOption {
	return func(f *Fetcher) {
		f.variables = make(map[string]interface{}, len(variables))
		for k, v := range variables {
			f.variables[k] = v
		}
	}
}

// WithVariable sets a single default variable.
func WithVariable(key string, value interface{}) FetcherOption {
	return func(f *Fetcher) {
		if f.variables == nil {
			f.variables = make(map[string]interface{})
		}
		f.variables[key] = value
	}
}

// WithLoadOnStart makes Start fire one automatic trigger with the default
// variables.
func WithLoadOnStart(load bool) FetcherOption {
	return func(f *Fetcher) {
		f.loadOnStart = load
	}
}

// WithHTTPDoer routes the fetcher's requests through doer. Useful for stubs
// and middleware; a nil doer keeps the default client.
func WithHTTPDoer(doer graphql.HTTPDoer) FetcherOption {
	return func(f *Fetcher) {
		if doer != nil {
			f.client = graphql.NewClient(doer)
		}
	}
}

// WithLogger installs a logger for request instrumentation. The default
// logger discards everything.
func WithLogger(logger logrus.FieldLogger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithAuthHandler overrides whatever handler the configuration would
// otherwise derive.
func WithAuthHandler(h auth.Handler) FetcherOption {
	return func(f *Fetcher) {
		f.authHandler = h
	}
}

// ApplyOptions applies FetcherOption functions in order.
func (f *Fetcher) ApplyOptions(opts ...FetcherOption) {
	for _, opt := range opts {
		opt(f)
	}
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderHTTPDoer routes requests of every fetcher the provider creates
// through doer.
func WithProviderHTTPDoer(doer graphql.HTTPDoer) ProviderOption {
	return func(p *Provider) {
		p.doer = doer
	}
}

// WithProviderLogger seeds every fetcher the provider creates with logger.
func WithProviderLogger(logger logrus.FieldLogger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// ApplyOptions applies ProviderOption functions in order.
func (p *Provider) ApplyOptions(opts ...ProviderOption) {
	for _, opt := range opts {
		opt(p)
	}
}
