package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "clinicbook"
	configFile = "config.yaml"

	// APIURLEnvVar overrides the configured backend URL when set.
	APIURLEnvVar = "CLINICBOOK_API_URL"

	// DefaultBaseURL is the backend API root used when nothing else is
	// configured.
	DefaultBaseURL = "http://localhost:8080/api"

	// DefaultTimeoutSeconds is the per-request HTTP timeout.
	DefaultTimeoutSeconds = 15
)

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigErr  error

	fileMutex sync.Mutex
)

// Config holds user-level settings for the client.
type Config struct {
	// BaseURL is the root of the backend REST API.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// Default returns a config populated with default values.
func Default() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Dir returns the OS-appropriate configuration directory for the
// application. This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/clinicbook or $HOME/.config/clinicbook
//   - macOS: $HOME/.config/clinicbook (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\clinicbook
func Dir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		// Linux, macOS and other Unix-like systems.
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// Path returns the full path to the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func ensureDir() error {
	dir, err := Dir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Load reads configuration from disk, applying defaults for missing fields
// and the CLINICBOOK_API_URL environment override. If no config file exists
// the defaults are returned. Thread-safe; repeated calls return the same
// instance.
func Load() (*Config, error) {
	globalConfigOnce.Do(func() {
		globalConfig, globalConfigErr = loadFromDisk()
	})
	return globalConfig, globalConfigErr
}

func loadFromDisk() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}

	// Environment override wins over the file.
	if envURL := os.Getenv(APIURLEnvVar); envURL != "" {
		cfg.BaseURL = envURL
	}

	return cfg, nil
}

// Save writes the configuration to disk with an atomic write to prevent
// corruption on crash.
func (c *Config) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := ensureDir(); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ClinicBook configuration file
#
# Credentials are never stored in this file. The session token lives in
# a separate file alongside it.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}
