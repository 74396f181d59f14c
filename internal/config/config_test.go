package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  env: dev
server:
  addr: ":9090"
  cors_allowed_origins: ["http://localhost:5173"]
storage:
  driver: memory
auth:
  issuer: https://tenant.auth0.example/
  audience: https://books.api
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Cache.Kind)
	assert.Equal(t, 5, cfg.Auth.JWKS.RequestsPerMinute)
	// JWKS URL derivada del issuer (trailing slash normalizado)
	assert.Equal(t, "https://tenant.auth0.example/.well-known/jwks.json", cfg.Auth.JWKS.URL)
}

func TestLoadRequiresIssuerAndAudience(t *testing.T) {
	_, err := Load(writeTemp(t, "server:\n  addr: \":1\"\n"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_AUDIENCE", "https://override.api")
	t.Setenv("AUTH_JWKS_REQUESTS_PER_MINUTE", "9")

	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "https://override.api", cfg.Auth.Audience)
	assert.Equal(t, 9, cfg.Auth.JWKS.RequestsPerMinute)
}

func TestDurationFallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, Duration("", 5*time.Second))
	assert.Equal(t, 2*time.Minute, Duration("2m", time.Second))
	assert.Equal(t, time.Second, Duration("garbage", time.Second))
}
