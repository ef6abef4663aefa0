package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the main configuration for shelf.
type Config struct {
	InstanceID string          `toml:"instance_id"`
	BaseDir    string          `toml:"base_dir"`
	LogDir     string          `toml:"log_dir"`
	LogLevel   string          `toml:"log_level"` // "debug", "info", "warn" or "error"
	Store      StoreConfig     `toml:"store"`
	Retry      RetryConfig     `toml:"retry"`
	Transport  TransportConfig `toml:"transport"`
}

// StoreConfig selects where the state document lives.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "memory", "file", "sqlite" or "s3"

	// File-specific fields (only used when Type == "file")
	Path string `toml:"path,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir       string `toml:"data_dir,omitempty"`
	KeepSnapshots int    `toml:"keep_snapshots,omitempty"` // older snapshots are pruned; 0 keeps the default

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// RetryConfig bounds retries of state loads and saves.
type RetryConfig struct {
	MaxAttempts       int `toml:"max_attempts"`
	InitialIntervalMS int `toml:"initial_interval_ms"`
	MaxIntervalMS     int `toml:"max_interval_ms"`
}

// InitialInterval returns the first backoff wait as a duration.
func (r RetryConfig) InitialInterval() time.Duration {
	return time.Duration(r.InitialIntervalMS) * time.Millisecond
}

// MaxInterval returns the backoff cap as a duration.
func (r RetryConfig) MaxInterval() time.Duration {
	return time.Duration(r.MaxIntervalMS) * time.Millisecond
}

// TransportConfig selects the chat transport adapter.
type TransportConfig struct {
	Type   string `toml:"type"`   // "console"
	Format string `toml:"format"` // "auto", "json" or "text"; console only
}

// NewConfig creates a new Config with the provided values and defaults
// suitable for a single host: a state file under baseDir and the console
// transport.
func NewConfig(instanceID, baseDir string) *Config {
	return &Config{
		InstanceID: instanceID,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		LogLevel:   "info",
		Store: StoreConfig{
			Type: "file",
			Path: filepath.Join(baseDir, "state.json"),
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialIntervalMS: 100,
			MaxIntervalMS:     2000,
		},
		Transport: TransportConfig{
			Type:   "console",
			Format: "auto",
		},
	}
}

// Validate checks the fields every deployment needs. Backend-specific fields
// are checked by the factories that consume them.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.InstanceID, validation.Required),
		validation.Field(&c.LogDir, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Store),
		validation.Field(&c.Retry),
		validation.Field(&c.Transport),
	)
}

// Validate implements validation.Validatable.
func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Type, validation.Required, validation.In("memory", "file", "sqlite", "s3")),
		validation.Field(&s.Path, validation.When(s.Type == "file", validation.Required)),
		validation.Field(&s.DataDir, validation.When(s.Type == "sqlite", validation.Required)),
		validation.Field(&s.KeepSnapshots, validation.Min(0)),
		validation.Field(&s.S3Bucket, validation.When(s.Type == "s3", validation.Required)),
		validation.Field(&s.S3Region, validation.When(s.Type == "s3", validation.Required)),
	)
}

// Validate implements validation.Validatable.
func (r RetryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxAttempts, validation.Min(0), validation.Max(10)),
		validation.Field(&r.InitialIntervalMS, validation.Min(0)),
		validation.Field(&r.MaxIntervalMS, validation.Min(0)),
	)
}

// Validate implements validation.Validatable.
func (t TransportConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Type, validation.Required, validation.In("console")),
		validation.Field(&t.Format, validation.In("", "auto", "json", "text")),
	)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
