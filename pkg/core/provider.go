package core

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/saturnines/gqlfetch/pkg/auth"
	"github.com/saturnines/gqlfetch/pkg/config"
	"github.com/saturnines/gqlfetch/pkg/graphql"
)

// Provider scopes one configuration over any number of fetchers, standing in
// for ambient propagation through a component tree. Fetchers created by
// Query hold only a read reference: they re-read the provider's config on
// every trigger, so an Update is picked up by the next call without
// rebuilding anything.
type Provider struct {
	mu      sync.RWMutex
	cfg     config.Config
	handler auth.Handler

	doer   graphql.HTTPDoer
	logger logrus.FieldLogger
}

// NewProvider creates a Provider around cfg. A nil cfg scopes the default
// empty configuration.
func NewProvider(cfg *config.Config, opts ...ProviderOption) (*Provider, error) {
	p := &Provider{logger: discardLogger()}
	p.ApplyOptions(opts...)
	if err := p.Update(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Config returns a copy of the current configuration. Mutating the copy has
// no effect on the provider; install changes with Update.
func (p *Provider) Config() config.Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Clone()
}

// Update replaces the configuration wholesale; nothing is merged. The auth
// handler is rebuilt from the new auth block, and a rebuild failure leaves
// the previous configuration in place.
func (p *Provider) Update(cfg *config.Config) error {
	next := config.Default()
	if cfg != nil {
		next = cfg.Clone()
	}

	handler, err := auth.CreateHandler(next.Auth)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = next
	p.handler = handler
	return nil
}

// snapshot implements configSource. The returned config shares its header
// map with the stored one; that map is never mutated after install, only
// replaced by Update.
func (p *Provider) snapshot() (config.Config, auth.Handler) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg, p.handler
}

// Query creates a Fetcher scoped to this provider. The provider's HTTP doer
// and logger seed the fetcher; per-fetcher options may override both.
func (p *Provider) Query(query string, opts ...FetcherOption) *Fetcher {
	f := newFetcher(query, p)
	if p.doer != nil {
		f.client = graphql.NewClient(p.doer)
	}
	f.logger = p.logger
	f.ApplyOptions(opts...)
	return f
}

// QueryFromContext creates a Fetcher from the configuration carried by ctx,
// for call trees composed around config.NewContext. A context with no
// carrier yields a fetcher aimed at the default empty configuration.
func QueryFromContext(ctx context.Context, query string, opts ...FetcherOption) (*Fetcher, error) {
	return NewFetcher(config.FromContext(ctx), query, opts...)
}
