package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(APIURLEnvVar, "")
	globalConfigOnce = sync.Once{}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want %d", cfg.TimeoutSeconds, DefaultTimeoutSeconds)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := useTempConfigDir(t)

	appDir := filepath.Join(dir, "clinicbook")
	if err := os.MkdirAll(appDir, 0700); err != nil {
		t.Fatal(err)
	}
	body := "base_url: https://clinic.example.com/api\ntimeout_seconds: 30\n"
	if err := os.WriteFile(filepath.Join(appDir, "config.yaml"), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://clinic.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
}

func TestEnvOverrideWins(t *testing.T) {
	dir := useTempConfigDir(t)

	appDir := filepath.Join(dir, "clinicbook")
	if err := os.MkdirAll(appDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "config.yaml"), []byte("base_url: https://file.example.com/api\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(APIURLEnvVar, "https://env.example.com/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com/api" {
		t.Errorf("BaseURL = %q, want env override", cfg.BaseURL)
	}
}

func TestSaveThenLoad(t *testing.T) {
	useTempConfigDir(t)

	cfg := &Config{BaseURL: "https://saved.example.com/api", TimeoutSeconds: 20}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	globalConfigOnce = sync.Once{}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.BaseURL != "https://saved.example.com/api" {
		t.Errorf("BaseURL = %q", loaded.BaseURL)
	}
	if loaded.TimeoutSeconds != 20 {
		t.Errorf("TimeoutSeconds = %d, want 20", loaded.TimeoutSeconds)
	}

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# ClinicBook configuration file") {
		t.Errorf("saved file missing header comment")
	}
}
