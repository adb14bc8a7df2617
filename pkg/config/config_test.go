package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Title != "I-V Curve Overlay" {
		t.Errorf("expected default Title='I-V Curve Overlay', got %q", cfg.Title)
	}

	if len(cfg.Palette) != 7 || cfg.Palette[0] != "blue" || cfg.Palette[6] != "black" {
		t.Errorf("unexpected default palette: %v", cfg.Palette)
	}

	if cfg.MarkerSize != 10 {
		t.Errorf("expected default MarkerSize=10, got %d", cfg.MarkerSize)
	}

	if cfg.ParseErrors != ParseErrorsIsolate {
		t.Errorf("expected default ParseErrors=%q, got %q", ParseErrorsIsolate, cfg.ParseErrors)
	}

	if cfg.AbortOnParseError() {
		t.Error("default config should not abort on parse errors")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg.DefaultFormat != FormatHTML {
		t.Errorf("expected default DefaultFormat='html', got %q", cfg.DefaultFormat)
	}
}

func TestSave_And_Load(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Title = "Diode sweep"
	cfg.Palette = []string{"#000", "#fff"}
	cfg.ParseErrors = ParseErrorsAbort
	cfg.Server.Addr = ":9000"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Title != "Diode sweep" {
		t.Errorf("Title: expected %q, got %q", "Diode sweep", loaded.Title)
	}
	if len(loaded.Palette) != 2 || loaded.Palette[1] != "#fff" {
		t.Errorf("Palette: got %v", loaded.Palette)
	}
	if !loaded.AbortOnParseError() {
		t.Error("expected abort policy to round-trip")
	}
	if loaded.Server.Addr != ":9000" {
		t.Errorf("Server.Addr: expected %q, got %q", ":9000", loaded.Server.Addr)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `title: ""
marker_size: -1
default_format: svg
parse_errors: sometimes
server:
  addr: ":8080"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Title != "I-V Curve Overlay" {
		t.Errorf("expected default title for empty value, got %q", cfg.Title)
	}
	if cfg.MarkerSize != 10 {
		t.Errorf("expected default MarkerSize for negative value, got %d", cfg.MarkerSize)
	}
	if cfg.DefaultFormat != FormatHTML {
		t.Errorf("expected unknown format to fall back to html, got %q", cfg.DefaultFormat)
	}
	if cfg.ParseErrors != ParseErrorsIsolate {
		t.Errorf("expected unknown policy to fall back to isolate, got %q", cfg.ParseErrors)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Server.Addr to be preserved, got %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxUploadMB != 32 {
		t.Errorf("expected default MaxUploadMB, got %d", cfg.Server.MaxUploadMB)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `title: ok
palette: [invalid yaml structure
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("IVC_ADDR", "0.0.0.0:9999")
	t.Setenv("IVC_MAX_UPLOAD_MB", "5")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9999" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxUploadMB != 5 {
		t.Errorf("expected env MaxUploadMB=5, got %d", cfg.Server.MaxUploadMB)
	}
	if cfg.Server.ReadTimeoutSeconds != 30 {
		t.Errorf("unset env var should keep default, got %d", cfg.Server.ReadTimeoutSeconds)
	}
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("IVC_MAX_UPLOAD_MB", "lots")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("expected error for non-numeric IVC_MAX_UPLOAD_MB")
	}
}

func TestSave_ValidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Title = "Solar cell"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	content := string(data)
	for _, key := range []string{"title: Solar cell", "parse_errors: isolate", "max_upload_mb: 32"} {
		if !strings.Contains(content, key) {
			t.Errorf("config file should contain %q", key)
		}
	}
}
