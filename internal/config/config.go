package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigDirName  = "stortally"
)

type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

type GCPConfig struct {
	Project string `mapstructure:"project"`
}

type ScanConfig struct {
	// PageSize is the object-listing page size; S3 caps it at 1000.
	PageSize int32 `mapstructure:"page_size" validate:"min=1,max=1000"`

	// MaxObjects caps the per-bucket scan (0 = scan everything).
	MaxObjects int64 `mapstructure:"max_objects" validate:"min=0"`

	// BucketTimeout bounds the wall-clock time spent on a single bucket.
	BucketTimeout time.Duration `mapstructure:"bucket_timeout" validate:"min=0"`

	// Concurrency is the number of buckets scanned in parallel.
	Concurrency int `mapstructure:"concurrency" validate:"min=1,max=64"`

	// RetryAttempts is the per-page retry budget for transient failures.
	RetryAttempts int `mapstructure:"retry_attempts" validate:"min=1,max=10"`
}

type OutputConfig struct {
	Format  string `mapstructure:"format" validate:"oneof=table yaml"`
	CSVPath string `mapstructure:"csv_path"`
}

type Config struct {
	AWS    *AWSConfig   `mapstructure:"aws"`
	GCP    *GCPConfig   `mapstructure:"gcp"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Output OutputConfig `mapstructure:"output"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Manager owns the viper instance backing the config file
// (~/.config/stortally/config.yaml) and the STORTALLY_* env overrides.
type Manager struct {
	v    *viper.Viper
	path string
}

func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user home directory: %w", err)
	}
	return newManager(filepath.Join(homeDir, ".config", ConfigDirName)), nil
}

func newManager(configDir string) *Manager {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("STORTALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("scan.page_size", 1000)
	v.SetDefault("scan.max_objects", 0)
	v.SetDefault("scan.bucket_timeout", "15m")
	v.SetDefault("scan.concurrency", 1)
	v.SetDefault("scan.retry_attempts", 5)
	v.SetDefault("output.format", "table")

	return &Manager{
		v:    v,
		path: filepath.Join(configDir, ConfigFileName+".yaml"),
	}
}

func (m *Manager) Load() (*Config, error) {
	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := m.v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// SetValue stores a dotted key (e.g. aws.region) and persists the file.
func (m *Manager) SetValue(key, value string) error {
	m.v.Set(strings.ToLower(key), value)
	return m.write()
}

// GetValue returns the current value for a dotted key and whether it is set.
func (m *Manager) GetValue(key string) (string, bool) {
	key = strings.ToLower(key)
	if !m.v.IsSet(key) {
		return "", false
	}
	return m.v.GetString(key), true
}

// DeleteValue removes a key and persists the file; any default for the key
// reasserts itself on the next Load. Returns false when the key had no value
// to remove.
func (m *Manager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)
	if m.v.GetString(key) == "" {
		return false, nil
	}

	settings := m.v.AllSettings()
	if !deleteSetting(settings, strings.Split(key, ".")) {
		return false, nil
	}

	// Viper cannot unset a key, so rebuild the instance from the pruned
	// settings instead.
	fresh := newManager(filepath.Dir(m.path))
	if err := fresh.v.MergeConfigMap(settings); err != nil {
		return false, fmt.Errorf("error rebuilding configuration: %w", err)
	}
	m.v = fresh.v

	if err := m.write(); err != nil {
		return false, err
	}
	return true, nil
}

// deleteSetting removes a dotted key path from a nested settings map,
// pruning parent maps left empty. Reports whether the leaf existed.
func deleteSetting(settings map[string]any, path []string) bool {
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		if _, ok := settings[path[0]]; !ok {
			return false
		}
		delete(settings, path[0])
		return true
	}

	child, ok := settings[path[0]].(map[string]any)
	if !ok {
		return false
	}
	if !deleteSetting(child, path[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(settings, path[0])
	}
	return true
}

// AllSettings returns the effective configuration as a nested map.
func (m *Manager) AllSettings() map[string]any {
	return m.v.AllSettings()
}

func (m *Manager) write() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
