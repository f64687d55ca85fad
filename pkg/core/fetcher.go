package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saturnines/gqlfetch/pkg/auth"
	"github.com/saturnines/gqlfetch/pkg/config"
	"github.com/saturnines/gqlfetch/pkg/graphql"
)

// configSource yields the configuration and auth handler a trigger uses.
// Sources are read fresh on every trigger, so fetchers created from a
// Provider observe config updates without being rebuilt.
type configSource interface {
	snapshot() (config.Config, auth.Handler)
}

// staticSource backs explicitly constructed fetchers: the config is cloned
// in once and never changes afterwards.
type staticSource struct {
	cfg     config.Config
	handler auth.Handler
}

func (s *staticSource) snapshot() (config.Config, auth.Handler) {
	return s.cfg, s.handler
}

// Fetcher issues a single GraphQL query against its configured endpoint and
// tracks the observable {data, loading, error} state across calls. It is the
// per-consumer unit: create one per query. Fetchers share no state with each
// other.
type Fetcher struct {
	query       string
	variables   map[string]interface{}
	loadOnStart bool

	source      configSource
	authHandler auth.Handler // explicit override; wins over the source's handler
	client      *graphql.Client
	logger      logrus.FieldLogger

	mu      sync.Mutex
	loading bool
	data    json.RawMessage
	err     error
	started bool
}

// NewFetcher creates a Fetcher bound to cfg. A nil cfg falls back to
// config.Default(): empty endpoint, empty headers, which fails at the HTTP
// layer rather than here. The error is non-nil only when cfg carries an auth
// block that cannot be turned into a handler.
func NewFetcher(cfg *config.Config, query string, opts ...FetcherOption) (*Fetcher, error) {
	c := config.Default()
	if cfg != nil {
		c = cfg.Clone()
	}

	src := &staticSource{cfg: c}
	f := newFetcher(query, src)
	f.ApplyOptions(opts...)

	// An explicit handler installed via options wins; otherwise derive one
	// from the config's auth block. The handler lives as long as the fetcher
	// so OAuth2 token caching survives across triggers.
	if f.authHandler == nil {
		handler, err := auth.CreateHandler(c.Auth)
		if err != nil {
			return nil, err
		}
		src.handler = handler
	}

	return f, nil
}

func newFetcher(query string, source configSource) *Fetcher {
	return &Fetcher{
		query:  query,
		source: source,
		client: graphql.NewClient(nil),
		logger: discardLogger(),
	}
}

// discardLogger gives fetchers a logger that goes nowhere until the caller
// installs a real one.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Trigger executes the query once. A non-nil overrides map replaces the
// default variables for this call only; the stored defaults are never
// mutated. Any failure along the path — building the request, applying auth,
// the transport, a non-2xx status, reading or decoding the body — is
// captured into the error state and returned; Trigger never panics. Note
// that the loading flag stays set on failure and a stale error survives a
// later success: only Reset clears either one.
//
// Overlapping calls are allowed and unsequenced: each resolution writes the
// shared state when it lands, so the last writer wins even if it was the
// earlier call.
func (f *Fetcher) Trigger(ctx context.Context, overrides map[string]interface{}) (_ *graphql.Response, reterr error) {
	f.mu.Lock()
	f.loading = true
	f.mu.Unlock()

	cfg, handler := f.source.snapshot()
	if f.authHandler != nil {
		handler = f.authHandler
	}

	variables := f.variables
	if overrides != nil {
		variables = overrides
	}

	fields := logrus.Fields{
		"endpoint":  cfg.Endpoint,
		"variables": fmt.Sprintf("%v", variables),
	}
	if cfg.Name != "" {
		fields["source"] = cfg.Name
	}
	log := f.logger.WithFields(fields)
	log.Debug("executing GraphQL query...")
	startTime := time.Now()
	defer func() {
		log := log.WithField("elapsed", time.Since(startTime))
		if reterr != nil {
			log.WithError(reterr).Debug("GraphQL query failed")
		} else {
			log.Debug("GraphQL query succeeded")
		}
	}()

	builder := graphql.NewBuilder(cfg.Endpoint, f.query, variables, cfg.Headers, handler)
	resp, err := f.client.Post(ctx, builder)
	if err != nil {
		f.mu.Lock()
		f.err = err
		f.mu.Unlock()
		return nil, err
	}

	f.mu.Lock()
	f.data = resp.Data
	f.loading = false
	f.mu.Unlock()
	return resp, nil
}

// Reset returns the state to idle: not loading, no data, no error.
// Idempotent and callable mid-flight; it does not cancel an in-flight
// trigger, so a response that resolves later still writes its outcome over
// the fresh state.
func (f *Fetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.data = nil
	f.err = nil
}

// Start activates the fetcher. When it was built with load-on-start, Start
// fires one trigger with the default variables in the background — exactly
// once for the fetcher's lifetime. Restarting after Stop does not fire
// again.
func (f *Fetcher) Start(ctx context.Context) {
	f.mu.Lock()
	if !f.loadOnStart || f.started {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.mu.Unlock()

	go func() {
		_, _ = f.Trigger(ctx, nil)
	}()
}

// Stop deactivates the fetcher, resetting the observable state. In-flight
// triggers are not aborted; their transport calls run to completion.
func (f *Fetcher) Stop() {
	f.Reset()
}

// Result returns a snapshot of the observable state.
func (f *Fetcher) Result() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Result{
		Data:    f.data,
		Loading: f.loading,
		Err:     f.err,
	}
}

// Loading reports whether a trigger has started and not yet succeeded.
func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Data returns the last successful response's data payload, nil when absent.
func (f *Fetcher) Data() json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Err returns the last captured failure, nil when absent.
func (f *Fetcher) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
