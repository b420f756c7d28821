// Package config loads the batchop configuration file, by default
// ~/.batchop/config.yaml, and applies BATCHOP_* environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/batchop/internal/persist"
	"github.com/roach88/batchop/internal/store"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".batchop"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// Environment variables. Each overrides the matching config file key.
const (
	EnvConfig         = "BATCHOP_CONFIG"
	EnvHelperPath     = "BATCHOP_HELPER_PATH"
	EnvStorageKey     = "BATCHOP_STORAGE_KEY"
	EnvStorageDriver  = "BATCHOP_STORAGE_DRIVER"
	EnvStorageDir     = "BATCHOP_STORAGE_DIR"
	EnvStorageDSN     = "BATCHOP_STORAGE_DSN"
	EnvS3Bucket       = "BATCHOP_S3_BUCKET"
	EnvS3Region       = "BATCHOP_S3_REGION"
	EnvS3Endpoint     = "BATCHOP_S3_ENDPOINT"
	EnvS3PathStyle    = "BATCHOP_S3_PATH_STYLE"
	EnvS3Prefix       = "BATCHOP_S3_PREFIX"
	EnvS3AccessKeyID  = "BATCHOP_S3_ACCESS_KEY_ID"
	EnvS3SecretKey    = "BATCHOP_S3_SECRET_ACCESS_KEY"
	EnvMaxOutputBytes = "BATCHOP_MAX_OUTPUT_BYTES"
	EnvLogLevel       = "BATCHOP_LOG_LEVEL"
)

// Storage selects and configures the persistence driver.
type Storage struct {
	Driver    string `yaml:"driver"`
	Dir       string `yaml:"dir,omitempty"`
	DSN       string `yaml:"dsn,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	// Static S3 credentials. Prefer the AWS environment or shared config.
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

// Config represents the contents of the config file.
type Config struct {
	HelperPath     string  `yaml:"helper_path"`
	StorageKey     string  `yaml:"storage_key"`
	MaxOutputBytes int64   `yaml:"max_output_bytes"`
	LogLevel       string  `yaml:"log_level"`
	Storage        Storage `yaml:"storage"`
}

// DefaultHelperPath is where the helper binary lives when nothing else is
// configured: $HOME/Desktop/json-cli/target/debug/my-helper.
func DefaultHelperPath(home string) string {
	return filepath.Join(home, "Desktop", "json-cli", "target", "debug", "my-helper")
}

// Default returns the configuration used when no file exists.
func Default(home string) *Config {
	return &Config{
		HelperPath:     DefaultHelperPath(home),
		StorageKey:     store.DefaultKey,
		MaxOutputBytes: 8 << 20,
		LogLevel:       "info",
		Storage: Storage{
			Driver: string(persist.DriverFile),
			Dir:    filepath.Join(home, DefaultConfigDir, "data"),
		},
	}
}

// Path returns the config file path: $BATCHOP_CONFIG, else
// ~/.batchop/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Load reads the config at path (Path() when empty), fills unset keys from
// Default and applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}
	if path == "" {
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	cfg := Default(home)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.HelperPath = expandHome(cfg.HelperPath, home)
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the directory if needed. The file
// may hold storage credentials, so it is only readable by the owner.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.HelperPath == "" {
		return fmt.Errorf("config: helper_path must not be empty")
	}
	if _, err := persist.ParseDriver(c.Storage.Driver); err != nil {
		return fmt.Errorf("config: storage.driver: %w", err)
	}
	if c.MaxOutputBytes < 0 {
		return fmt.Errorf("config: max_output_bytes must not be negative")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// PersistOptions converts the storage section into adapter options.
func (c *Config) PersistOptions() (persist.Options, error) {
	driver, err := persist.ParseDriver(c.Storage.Driver)
	if err != nil {
		return persist.Options{}, err
	}
	return persist.Options{
		Driver: driver,
		Dir:    c.Storage.Dir,
		DSN:    c.Storage.DSN,
		S3: persist.S3Config{
			Bucket:    c.Storage.Bucket,
			Region:    c.Storage.Region,
			Endpoint:  c.Storage.Endpoint,
			PathStyle: c.Storage.PathStyle,
			Prefix:    c.Storage.Prefix,

			AccessKeyID:     c.Storage.AccessKeyID,
			SecretAccessKey: c.Storage.SecretAccessKey,
		},
	}, nil
}

// ParseLogLevel maps a config string to a slog level.
func ParseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{EnvHelperPath, &cfg.HelperPath},
		{EnvStorageKey, &cfg.StorageKey},
		{EnvStorageDriver, &cfg.Storage.Driver},
		{EnvStorageDir, &cfg.Storage.Dir},
		{EnvStorageDSN, &cfg.Storage.DSN},
		{EnvS3Bucket, &cfg.Storage.Bucket},
		{EnvS3Region, &cfg.Storage.Region},
		{EnvS3Endpoint, &cfg.Storage.Endpoint},
		{EnvS3Prefix, &cfg.Storage.Prefix},
		{EnvS3AccessKeyID, &cfg.Storage.AccessKeyID},
		{EnvS3SecretKey, &cfg.Storage.SecretAccessKey},
		{EnvLogLevel, &cfg.LogLevel},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.env); ok && v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv(EnvS3PathStyle); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvS3PathStyle, err)
		}
		cfg.Storage.PathStyle = b
	}
	if v := os.Getenv(EnvMaxOutputBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxOutputBytes, err)
		}
		cfg.MaxOutputBytes = n
	}
	return nil
}

// ExpandHome replaces a leading "~" in p with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return expandHome(p, home), nil
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
