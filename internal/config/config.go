package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvAPIURL overrides api.base_url when set.
const EnvAPIURL = "ALERT_TOP_API_URL"

// MinSearchDebounceMS is the shortest allowed search debounce. The search
// box must never hit the backend sooner than this after a keystroke.
const MinSearchDebounceMS = 500

type Config struct {
	API           APIConfig
	Filters       FiltersConfig
	Display       DisplayConfig
	Notifications NotificationConfig
	Storage       StorageConfig
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type FiltersConfig struct {
	DefaultManagerID string `toml:"default_manager_id"`
	SearchDebounceMS int    `toml:"search_debounce_ms"`
}

type DisplayConfig struct {
	ToastDurationMS     int  `toml:"toast_duration_ms"`
	NotificationLogSize int  `toml:"notification_log_size"`
	RestoreLastView     bool `toml:"restore_last_view"`
}

type NotificationConfig struct {
	SystemNotify bool `toml:"system_notify"`
}

// StorageConfig locates the visit history database. An empty DBPath
// keeps history in memory for the lifetime of the process.
type StorageConfig struct {
	DBPath    string `toml:"db_path"`
	MaxVisits int    `toml:"max_visits"`
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8000/api",
			TimeoutSeconds: 15,
		},
		Filters: FiltersConfig{
			DefaultManagerID: "E2",
			SearchDebounceMS: 500,
		},
		Display: DisplayConfig{
			ToastDurationMS:     3000,
			NotificationLogSize: 100,
			RestoreLastView:     true,
		},
		Notifications: NotificationConfig{
			SystemNotify: false,
		},
		Storage: StorageConfig{
			DBPath:    "~/.config/alert-top/history.db",
			MaxVisits: 500,
		},
	}
}

var knownSections = map[string]map[string]bool{
	"api":           {"base_url": true, "timeout_seconds": true},
	"filters":       {"default_manager_id": true, "search_debounce_ms": true},
	"display":       {"toast_duration_ms": true, "notification_log_size": true, "restore_last_view": true},
	"notifications": {"system_notify": true},
	"storage":       {"db_path": true, "max_visits": true},
}

// DefaultPath returns ~/.config/alert-top/config.toml, or "" when the
// home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "alert-top", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(DefaultPath())
}

func LoadFrom(path string) (*LoadResult, error) {
	if path == "" {
		return LoadFromString("")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadFromString("")
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	result, err := LoadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return result, nil
}

func LoadFromString(data string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	result.Warnings = unknownKeys(raw)

	var tf tomlFile
	if _, err := toml.Decode(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

// ApplyEnv overlays environment overrides onto cfg. getenv is usually
// os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		cfg.API.BaseURL = v
		return validate(cfg)
	}
	return nil
}

type tomlFile struct {
	API           *APIConfig          `toml:"api"`
	Filters       *FiltersConfig      `toml:"filters"`
	Display       *DisplayConfig      `toml:"display"`
	Notifications *NotificationConfig `toml:"notifications"`
	Storage       *StorageConfig      `toml:"storage"`
}

func unknownKeys(raw map[string]any) []string {
	var warnings []string
	for key, val := range raw {
		fields, ok := knownSections[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown config key: %q", key))
			continue
		}
		section, ok := val.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("config key %q should be a table", key))
			continue
		}
		for field := range section {
			if !fields[field] {
				warnings = append(warnings, fmt.Sprintf("unknown config key: %q", key+"."+field))
			}
		}
	}
	return warnings
}

func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.API != nil {
		if section, ok := rawSection(raw, "api"); ok {
			if _, exists := section["base_url"]; exists {
				cfg.API.BaseURL = tf.API.BaseURL
			}
			if _, exists := section["timeout_seconds"]; exists {
				cfg.API.TimeoutSeconds = tf.API.TimeoutSeconds
			}
		}
	}
	if tf.Filters != nil {
		if section, ok := rawSection(raw, "filters"); ok {
			if _, exists := section["default_manager_id"]; exists {
				cfg.Filters.DefaultManagerID = tf.Filters.DefaultManagerID
			}
			if _, exists := section["search_debounce_ms"]; exists {
				cfg.Filters.SearchDebounceMS = tf.Filters.SearchDebounceMS
			}
		}
	}
	if tf.Display != nil {
		if section, ok := rawSection(raw, "display"); ok {
			if _, exists := section["toast_duration_ms"]; exists {
				cfg.Display.ToastDurationMS = tf.Display.ToastDurationMS
			}
			if _, exists := section["notification_log_size"]; exists {
				cfg.Display.NotificationLogSize = tf.Display.NotificationLogSize
			}
			if _, exists := section["restore_last_view"]; exists {
				cfg.Display.RestoreLastView = tf.Display.RestoreLastView
			}
		}
	}
	if tf.Notifications != nil {
		if section, ok := rawSection(raw, "notifications"); ok {
			if _, exists := section["system_notify"]; exists {
				cfg.Notifications.SystemNotify = tf.Notifications.SystemNotify
			}
		}
	}
	if tf.Storage != nil {
		if section, ok := rawSection(raw, "storage"); ok {
			if _, exists := section["db_path"]; exists {
				cfg.Storage.DBPath = tf.Storage.DBPath
			}
			if _, exists := section["max_visits"]; exists {
				cfg.Storage.MaxVisits = tf.Storage.MaxVisits
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api base_url must be an absolute URL, got %q", cfg.API.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("api base_url scheme must be http or https, got %q", u.Scheme))
	}
	if cfg.API.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Sprintf("api timeout_seconds must be positive, got %d", cfg.API.TimeoutSeconds))
	}

	if strings.TrimSpace(cfg.Filters.DefaultManagerID) == "" {
		errs = append(errs, "filters default_manager_id must not be empty")
	}
	if cfg.Filters.SearchDebounceMS < MinSearchDebounceMS {
		errs = append(errs, fmt.Sprintf("filters search_debounce_ms must be at least %d, got %d", MinSearchDebounceMS, cfg.Filters.SearchDebounceMS))
	}

	if cfg.Display.ToastDurationMS < 1 {
		errs = append(errs, fmt.Sprintf("display toast_duration_ms must be positive, got %d", cfg.Display.ToastDurationMS))
	}
	if cfg.Display.NotificationLogSize < 1 {
		errs = append(errs, fmt.Sprintf("display notification_log_size must be positive, got %d", cfg.Display.NotificationLogSize))
	}

	if cfg.Storage.MaxVisits < 1 {
		errs = append(errs, fmt.Sprintf("storage max_visits must be positive, got %d", cfg.Storage.MaxVisits))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
