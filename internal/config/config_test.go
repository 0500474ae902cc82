package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
database:
  backend: sqlite
  path: /tmp/anivault-test.db
auth:
  token_secret: file-secret
  token_ttl: 12h
admin:
  id: admin-default
  email: admin@example.com
  password: Admin123!
  username: admin
  nickname: Administrator
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Database.Backend)
	assert.Equal(t, "/tmp/anivault-test.db", cfg.Database.Path)
	assert.Equal(t, "file-secret", cfg.Auth.TokenSecret)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin-default", cfg.Admin.ID)
	assert.Equal(t, "Admin123!", cfg.Admin.Password)
}

func TestLoad_DefaultsWithEnvSecrets(t *testing.T) {
	t.Setenv(EnvTokenSecret, "env-secret")
	t.Setenv(EnvAdminPassword, "EnvAdmin1!")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendBolt, cfg.Database.Backend)
	assert.Equal(t, "anivault.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "env-secret", cfg.Auth.TokenSecret)
	assert.Equal(t, "EnvAdmin1!", cfg.Admin.Password)
	assert.Equal(t, "admin-default", cfg.Admin.ID)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvTokenSecret, "env-secret")

	path := writeConfig(t, `
auth:
  token_secret: file-secret
admin:
  password: Admin123!
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.TokenSecret)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "missing secret",
			content: `
admin:
  password: Admin123!
`,
			wantMsg: "token secret",
		},
		{
			name: "missing admin password",
			content: `
auth:
  token_secret: secret
`,
			wantMsg: "admin password",
		},
		{
			name: "unknown backend",
			content: `
database:
  backend: postgres
auth:
  token_secret: secret
admin:
  password: Admin123!
`,
			wantMsg: "backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Nil(t, cfg)
		})
	}
}
