package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/juaai/jua/assets"
	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/pkg/filesystem"
	"github.com/juaai/jua/internal/ports"
)

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "JUA_CONFIG"

// FileLoader loads YAML configuration from ~/.jua/config.yaml (overridable via JUA_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Path returns the file Load reads.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = hydrateDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.DataDir(), "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// Defaults returns the embedded default configuration.
func Defaults() domain.Config {
	var cfg domain.Config
	_ = yaml.Unmarshal(assets.DefaultConfigYAML, &cfg)
	return hydrateDefaults(cfg)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Classifier.TimeoutSeconds <= 0 {
		cfg.Classifier.TimeoutSeconds = int(domain.DefaultClassifierTimeout.Seconds())
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = domain.StorageBackendFile
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filesystem.DataDir()
	}
	cfg.Storage.Dir = filesystem.ExpandPath(cfg.Storage.Dir)
	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = domain.DefaultHistoryMaxEntries
	}
	if cfg.Weather.TTLMinutes <= 0 {
		cfg.Weather.TTLMinutes = domain.DefaultWeatherTTLMinutes
	}
	if cfg.Weather.ForecastDays <= 0 {
		cfg.Weather.ForecastDays = domain.DefaultForecastDays
	}
	if cfg.Tips.TTLMinutes <= 0 {
		cfg.Tips.TTLMinutes = domain.DefaultTipsTTLMinutes
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultServerAddr
	}
	return cfg
}

// Validate rejects settings that cannot be hydrated into something usable.
func Validate(cfg domain.Config) error {
	switch cfg.Storage.Backend {
	case domain.StorageBackendFile, domain.StorageBackendSQLite, domain.StorageBackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", cfg.Storage.Backend)
	}
	for key, raw := range map[string]string{
		"classifier.endpoint":        cfg.Classifier.Endpoint,
		"classifier.health_endpoint": cfg.Classifier.HealthEndpoint,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s: %q is not an http(s) URL", key, raw)
		}
	}
	if cfg.Classifier.RatePerMinute < 0 {
		return fmt.Errorf("classifier.rate_per_minute: must not be negative")
	}
	return nil
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
