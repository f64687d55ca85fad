package core

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnines/gqlfetch/pkg/config"
)

func TestProviderUpdateSeenByNextTrigger(t *testing.T) {
	var endpoints []string
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		endpoints = append(endpoints, req.URL.String())
		return jsonResponse(http.StatusOK, `{"data":{"ok":true}}`), nil
	})

	p, err := NewProvider(
		&config.Config{Endpoint: "http://one.test/graphql"},
		WithProviderHTTPDoer(doer),
	)
	require.NoError(t, err)

	f := p.Query("{ok}")

	ctx := context.Background()
	_, err = f.Trigger(ctx, nil)
	require.NoError(t, err)

	// Replacing the provider's config redirects the same fetcher: it holds
	// a read reference, not a copy.
	require.NoError(t, p.Update(&config.Config{Endpoint: "http://two.test/graphql"}))
	_, err = f.Trigger(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://one.test/graphql", "http://two.test/graphql"}, endpoints)
}

func TestProviderUpdateReplacesHeadersWholesale(t *testing.T) {
	var headers []http.Header
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		headers = append(headers, req.Header.Clone())
		return jsonResponse(http.StatusOK, `{"data":{"ok":true}}`), nil
	})

	p, err := NewProvider(&config.Config{
		Endpoint: "http://gql.test/query",
		Headers:  map[string]string{"X-Tenant": "alpha", "X-Trace": "on"},
	}, WithProviderHTTPDoer(doer))
	require.NoError(t, err)

	f := p.Query("{ok}")
	ctx := context.Background()

	_, err = f.Trigger(ctx, nil)
	require.NoError(t, err)

	// The new header set is not merged with the old one.
	require.NoError(t, p.Update(&config.Config{
		Endpoint: "http://gql.test/query",
		Headers:  map[string]string{"X-Tenant": "beta"},
	}))
	_, err = f.Trigger(ctx, nil)
	require.NoError(t, err)

	require.Len(t, headers, 2)
	assert.Equal(t, "alpha", headers[0].Get("X-Tenant"))
	assert.Equal(t, "on", headers[0].Get("X-Trace"))
	assert.Equal(t, "beta", headers[1].Get("X-Tenant"))
	assert.Empty(t, headers[1].Get("X-Trace"))
}

func TestProviderConfigReturnsCopy(t *testing.T) {
	p, err := NewProvider(&config.Config{
		Endpoint: "http://gql.test/query",
		Headers:  map[string]string{"X-Tenant": "alpha"},
	})
	require.NoError(t, err)

	got := p.Config()
	got.Endpoint = "http://evil.test"
	got.Headers["X-Tenant"] = "mallory"

	fresh := p.Config()
	assert.Equal(t, "http://gql.test/query", fresh.Endpoint)
	assert.Equal(t, "alpha", fresh.Headers["X-Tenant"])
}

func TestProviderUpdateKeepsOldConfigOnBadAuth(t *testing.T) {
	p, err := NewProvider(&config.Config{Endpoint: "http://one.test/graphql"})
	require.NoError(t, err)

	err = p.Update(&config.Config{
		Endpoint: "http://two.test/graphql",
		Auth:     &config.Auth{Type: config.AuthType("kerberos")},
	})
	require.Error(t, err)

	assert.Equal(t, "http://one.test/graphql", p.Config().Endpoint)
}

func TestProviderUpdateNilResetsToDefault(t *testing.T) {
	p, err := NewProvider(&config.Config{Endpoint: "http://one.test/graphql"})
	require.NoError(t, err)

	require.NoError(t, p.Update(nil))

	got := p.Config()
	assert.Equal(t, "", got.Endpoint)
	assert.NotNil(t, got.Headers)
	assert.Empty(t, got.Headers)
}

func TestProviderSeedsFetcherOptions(t *testing.T) {
	var calls int
	seeded := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `{"data":{"ok":true}}`), nil
	})

	p, err := NewProvider(
		&config.Config{Endpoint: "http://gql.test/query"},
		WithProviderHTTPDoer(seeded),
	)
	require.NoError(t, err)

	// Fetcher inherits the provider's doer.
	f := p.Query("{ok}")
	_, err = f.Trigger(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Per-fetcher options still override the seed.
	var overrideCalls int
	override := doerFunc(func(req *http.Request) (*http.Response, error) {
		overrideCalls++
		return jsonResponse(http.StatusOK, `{"data":{"ok":true}}`), nil
	})
	g := p.Query("{ok}", WithHTTPDoer(override))
	_, err = g.Trigger(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, overrideCalls)
}

func TestProviderQueryAuthFollowsUpdate(t *testing.T) {
	var auths []string
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		auths = append(auths, req.Header.Get("Authorization"))
		return jsonResponse(http.StatusOK, `{"data":{"ok":true}}`), nil
	})

	p, err := NewProvider(&config.Config{
		Endpoint: "http://gql.test/query",
		Auth: &config.Auth{
			Type:   config.AuthTypeBearer,
			Bearer: &config.BearerAuth{Token: "old-token"},
		},
	}, WithProviderHTTPDoer(doer))
	require.NoError(t, err)

	f := p.Query("{ok}")
	ctx := context.Background()

	_, err = f.Trigger(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, p.Update(&config.Config{
		Endpoint: "http://gql.test/query",
		Auth: &config.Auth{
			Type:   config.AuthTypeBearer,
			Bearer: &config.BearerAuth{Token: "new-token"},
		},
	}))
	_, err = f.Trigger(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer old-token", "Bearer new-token"}, auths)
}

func TestQueryFromContext(t *testing.T) {
	var got *http.Request
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		got = req
		return jsonResponse(http.StatusOK, `{"data":{"ok":true}}`), nil
	})

	t.Run("carried config", func(t *testing.T) {
		ctx := config.NewContext(context.Background(), &config.Config{
			Endpoint: "http://carried.test/graphql",
			Headers:  map[string]string{"X-Scope": "tree"},
		})

		f, err := QueryFromContext(ctx, "{ok}", WithHTTPDoer(doer))
		require.NoError(t, err)

		_, err = f.Trigger(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "http://carried.test/graphql", got.URL.String())
		assert.Equal(t, "tree", got.Header.Get("X-Scope"))
	})

	t.Run("no carrier yields default", func(t *testing.T) {
		f, err := QueryFromContext(context.Background(), "{ok}", WithHTTPDoer(doer))
		require.NoError(t, err)

		_, err = f.Trigger(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "", got.URL.String())
	})
}
