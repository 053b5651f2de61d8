package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := Path(), "/custom/config/shelf/config.yml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot get home directory")
	}
	want := filepath.Join(home, ".config", "shelf", "config.yml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	ResetCache()
	defer ResetCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvBackendURL, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != "" {
		t.Errorf("BackendURL = %q, want empty", cfg.BackendURL)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ResetCache()
	defer ResetCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvBackendURL, "")

	in := &Config{
		BackendURL: "https://script.google.com/macros/s/abc/exec",
		AIProvider: "groq",
		Viewer:     "zathura",
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ResetCache()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != in.BackendURL || cfg.AIProvider != "groq" || cfg.Viewer != "zathura" {
		t.Errorf("round trip mismatch: %+v", cfg)
	}
}

func TestEnvOverridesBackendURL(t *testing.T) {
	ResetCache()
	defer ResetCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := Save(&Config{BackendURL: "https://file-value.example"}); err != nil {
		t.Fatal(err)
	}
	ResetCache()
	t.Setenv(EnvBackendURL, "https://env-value.example")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendURL != "https://env-value.example" {
		t.Errorf("BackendURL = %q, env should win", cfg.BackendURL)
	}
}

func TestDataDirOverride(t *testing.T) {
	ResetCache()
	defer ResetCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvBackendURL, "")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	if got, want := DataDir(), filepath.Join("/xdg/data", "shelf"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}

	if err := Save(&Config{DataDir: "/explicit/dir"}); err != nil {
		t.Fatal(err)
	}
	ResetCache()
	if got := DataDir(); got != "/explicit/dir" {
		t.Errorf("DataDir() = %q, want config override", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot get home directory")
	}
	if got, want := ExpandTilde("~/shelf-data"), filepath.Join(home, "shelf-data"); got != want {
		t.Errorf("ExpandTilde = %q, want %q", got, want)
	}
	if got := ExpandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandTilde = %q, want unchanged", got)
	}
}
