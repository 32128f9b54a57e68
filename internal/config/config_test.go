package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Spice Route Kitchen", "cloud_kitchen")
	cfg.Business.KVK = "12345678"
	cfg.Business.VATNumber = "NL001234567B01"
	cfg.VAT.KOROptIn = true
	cfg.Storage.Backend = BackendSQLite

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Kitchen", "cloud_kitchen")

	assert.Equal(t, "My Kitchen", cfg.Business.Name)
	assert.Equal(t, "cloud_kitchen", cfg.Business.Type)
	assert.Equal(t, 21, cfg.VAT.DefaultRate)
	assert.Equal(t, 20000, cfg.VAT.KORThreshold)
	assert.Equal(t, "20000", cfg.VAT.Threshold().String())
	assert.False(t, cfg.VAT.KOROptIn)
	assert.Equal(t, 14, cfg.Invoice.PaymentTermDays)
	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
	assert.Equal(t, "owner", cfg.Audit.Actor)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "kitchenbook", cfg.Git.AuthorName)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Tiny\nvat:\n  default_rate: 9\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", cfg.Business.Name)
	assert.Equal(t, 9, cfg.VAT.DefaultRate)
	assert.Equal(t, 20000, cfg.VAT.KORThreshold)
	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("vat: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Kitchen", "cloud_kitchen")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Kitchen")
	assert.Contains(t, contents, "default_rate: 21")
	assert.Contains(t, contents, "kor_threshold: 20000")
	assert.Contains(t, contents, "backend: csv")
	assert.Contains(t, contents, "auto_commit: false")
	assert.NotContains(t, contents, "kvk:")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackend:    "sqlite",
		EnvSQLitePath: "/tmp/kb.db",
		EnvActor:      "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default("K", "cloud_kitchen")
	cfg.ApplyEnv(lookup)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/kb.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "owner", cfg.Audit.Actor, "empty values do not override")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want string
	}{
		{"bad rate", func(c *Config) { c.VAT.DefaultRate = 19 }, "vat.default_rate"},
		{"negative threshold", func(c *Config) { c.VAT.KORThreshold = -1 }, "vat.kor_threshold"},
		{"negative term", func(c *Config) { c.Invoice.PaymentTermDays = -7 }, "payment_term_days"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "unknown backend"},
		{"sqlite without path", func(c *Config) {
			c.Storage.Backend = BackendSQLite
			c.Storage.SQLitePath = ""
		}, "sqlite_path"},
		{"auto commit without author", func(c *Config) {
			c.Git.AutoCommit = true
			c.Git.AuthorEmail = ""
		}, "author_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("K", "cloud_kitchen")
			tt.mod(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
