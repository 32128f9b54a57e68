package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
)

// FileName is the project configuration file at the repository root.
const FileName = "kitchenbook.yaml"

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Environment variables that override file settings.
const (
	EnvBackend    = "KITCHENBOOK_BACKEND"
	EnvSQLitePath = "KITCHENBOOK_SQLITE_PATH"
	EnvActor      = "KITCHENBOOK_ACTOR"
)

// Config represents the top-level kitchenbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	VAT      VATConfig      `yaml:"vat"`
	Invoice  InvoiceConfig  `yaml:"invoice"`
	Storage  StorageConfig  `yaml:"storage"`
	Audit    AuditConfig    `yaml:"audit"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business.
type BusinessConfig struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	KVK       string `yaml:"kvk,omitempty"`
	VATNumber string `yaml:"vat_number,omitempty"`
	Address   string `yaml:"address,omitempty"`
}

// VATConfig holds VAT defaults and the small-business scheme (KOR) settings.
type VATConfig struct {
	DefaultRate  int  `yaml:"default_rate"`
	KORThreshold int  `yaml:"kor_threshold"` // whole euros
	KOROptIn     bool `yaml:"kor_opt_in"`
}

// Threshold returns the KOR threshold as a decimal amount.
func (v VATConfig) Threshold() decimal.Decimal {
	return decimal.NewFromInt(int64(v.KORThreshold))
}

// InvoiceConfig controls outgoing invoices.
type InvoiceConfig struct {
	PaymentTermDays int `yaml:"payment_term_days"`
}

// StorageConfig selects the record store.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path,omitempty"` // relative to the repository root
}

// AuditConfig controls the audit log.
type AuditConfig struct {
	Actor string `yaml:"actor"`
}

// GitConfig controls the optional git history of the project directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a kitchenbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, businessType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
			Type: businessType,
		},
		VAT: VATConfig{
			DefaultRate:  21,
			KORThreshold: int(ledger.DefaultKORThreshold.IntPart()),
		},
		Invoice: InvoiceConfig{
			PaymentTermDays: 14,
		},
		Storage: StorageConfig{
			Backend:    BackendCSV,
			SQLitePath: "data/kitchenbook.db",
		},
		Audit: AuditConfig{
			Actor: "owner",
		},
		Git: GitConfig{
			AuthorName:  "kitchenbook",
			AuthorEmail: "kitchenbook@localhost",
		},
	}
}

// ApplyEnv overrides settings from environment variables read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Storage.Backend = v
	}
	if v, ok := lookup(EnvSQLitePath); ok && v != "" {
		c.Storage.SQLitePath = v
	}
	if v, ok := lookup(EnvActor); ok && v != "" {
		c.Audit.Actor = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if err := ledger.CheckRate(c.VAT.DefaultRate); err != nil {
		errs = append(errs, fmt.Errorf("vat.default_rate: %w", err))
	}
	if c.VAT.KORThreshold < 0 {
		errs = append(errs, errors.New("vat.kor_threshold: must not be negative"))
	}
	if c.Invoice.PaymentTermDays < 0 {
		errs = append(errs, errors.New("invoice.payment_term_days: must not be negative"))
	}
	switch c.Storage.Backend {
	case BackendCSV:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path: required for sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		errs = append(errs, errors.New("git: author_name and author_email are required for auto_commit"))
	}
	return errors.Join(errs...)
}
