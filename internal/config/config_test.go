package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.DatabasePath != "sprint.db" || cfg.UploadDir != "uploads" {
		t.Fatalf("unexpected storage defaults: %q %q", cfg.DatabasePath, cfg.UploadDir)
	}
	if cfg.UseSupabase {
		t.Fatalf("embedded backend must be the default")
	}
	if cfg.TokenDuration != time.Hour {
		t.Fatalf("unexpected token duration %v", cfg.TokenDuration)
	}
	if cfg.Supabase.Bucket != "proofs" {
		t.Fatalf("unexpected bucket %q", cfg.Supabase.Bucket)
	}
	if cfg.Engine.Model == "" {
		t.Fatalf("expected a default quest model")
	}
	if cfg.Ollama.Retries == 0 || cfg.Ollama.CircuitFailureThreshold == 0 {
		t.Fatalf("expected resilience defaults: %+v", cfg.Ollama)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SPRINT_ADDR", ":9999")
	t.Setenv("SPRINT_ADMIN_PASSWORD", "sesame")
	t.Setenv("SPRINT_USE_SUPABASE", "true")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.AdminPassword != "sesame" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if !cfg.UseSupabase || cfg.Supabase.URL != "https://proj.supabase.co" {
		t.Fatalf("supabase env not applied: %+v", cfg.Supabase)
	}
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
addr: ":7070"
admin_password: yamlpass
community:
  telegram_link: https://t.me/overridden
  x_handle: "@overridden"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.AdminPassword != "yamlpass" {
		t.Fatalf("yaml overlay not applied: %+v", cfg)
	}
	if cfg.Community.TelegramLink != "https://t.me/overridden" || cfg.Community.XHandle != "@overridden" {
		t.Fatalf("community overlay not applied: %+v", cfg.Community)
	}
	// untouched fields keep their defaults
	if cfg.DatabasePath != "sprint.db" {
		t.Fatalf("default lost under overlay: %q", cfg.DatabasePath)
	}
}

func TestLoadConfigSupabaseRequiresCredentials(t *testing.T) {
	t.Setenv("SPRINT_USE_SUPABASE", "yes")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_KEY", "")

	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error when supabase selected without credentials")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestEnvBool(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true, " on ": true,
		"0": false, "false": false, "nope": false,
	}
	for v, want := range cases {
		t.Setenv("SPRINT_TEST_BOOL", v)
		if got := envBool("SPRINT_TEST_BOOL", false); got != want {
			t.Fatalf("envBool(%q) = %v, want %v", v, got, want)
		}
	}
	os.Unsetenv("SPRINT_TEST_BOOL")
	if !envBool("SPRINT_TEST_BOOL", true) {
		t.Fatalf("expected default when unset")
	}
}
