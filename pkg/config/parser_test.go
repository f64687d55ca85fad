package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader() *Loader {
	return NewLoader(
		&EnvExpander{},
		&ConfigDefaults{},
		&RequiredFieldValidator{},
		&AuthValidator{},
	)
}

func TestLoaderParse(t *testing.T) {
	loader := newTestLoader()

	for _, tt := range []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "minimal valid",
			yaml: "endpoint: https://api.example.com/graphql\n",
		},
		{
			name: "name and headers",
			yaml: "name: countries\n" +
				"endpoint: https://api.example.com/graphql\n" +
				"headers:\n" +
				"  Authorization: Bearer token\n" +
				"  X-Tenant: alpha\n",
		},
		{
			name:    "missing endpoint",
			yaml:    "headers:\n  X-Key: v\n",
			wantErr: "endpoint",
		},
		{
			name:    "relative endpoint",
			yaml:    "endpoint: /graphql\n",
			wantErr: "absolute URL",
		},
		{
			name:    "malformed yaml",
			yaml:    "endpoint: [unclosed\n",
			wantErr: "parse YAML",
		},
		{
			name: "valid bearer auth",
			yaml: "endpoint: https://api.example.com/graphql\n" +
				"auth:\n" +
				"  type: bearer\n" +
				"  bearer:\n" +
				"    token: abc\n",
		},
		{
			name: "bearer auth missing token",
			yaml: "endpoint: https://api.example.com/graphql\n" +
				"auth:\n" +
				"  type: bearer\n",
			wantErr: "auth.bearer.token",
		},
		{
			name: "basic auth missing password",
			yaml: "endpoint: https://api.example.com/graphql\n" +
				"auth:\n" +
				"  type: basic\n" +
				"  basic:\n" +
				"    username: alice\n",
			wantErr: "auth.basic.password",
		},
		{
			name: "api key without header or query param",
			yaml: "endpoint: https://api.example.com/graphql\n" +
				"auth:\n" +
				"  type: api_key\n" +
				"  api_key:\n" +
				"    value: k\n",
			wantErr: "either header or query_param",
		},
		{
			name: "oauth2 missing client secret",
			yaml: "endpoint: https://api.example.com/graphql\n" +
				"auth:\n" +
				"  type: oauth2\n" +
				"  oauth2:\n" +
				"    token_url: https://auth.example.com/token\n" +
				"    client_id: cid\n",
			wantErr: "auth.oauth2.client_secret",
		},
		{
			name: "unknown auth type",
			yaml: "endpoint: https://api.example.com/graphql\n" +
				"auth:\n" +
				"  type: kerberos\n",
			wantErr: "unknown auth type",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loader.Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			// The defaults pass always leaves a usable header map behind.
			assert.NotNil(t, cfg.Headers)
		})
	}
}

func TestLoaderExpandsEnvironment(t *testing.T) {
	t.Setenv("GQL_ENDPOINT", "https://api.example.com/graphql")
	t.Setenv("GQL_API_TOKEN", "s3cr3t")

	loader := newTestLoader()
	cfg, err := loader.Parse([]byte(
		"endpoint: ${GQL_ENDPOINT}\n" +
			"headers:\n" +
			"  Authorization: Bearer ${GQL_API_TOKEN}\n",
	))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/graphql", cfg.Endpoint)
	assert.Equal(t, "Bearer s3cr3t", cfg.Headers["Authorization"])
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: https://api.example.com/graphql\n"), 0o600))

	loader := newTestLoader()
	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/graphql", cfg.Endpoint)

	_, err = loader.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "endpoint", Message: "is required"}
	assert.Equal(t, "endpoint: is required", err.Error())
}
