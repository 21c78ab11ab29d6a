package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Providers.Primary.Name != "ollama" {
		t.Errorf("expected ollama primary, got %q", cfg.Providers.Primary.Name)
	}
	if cfg.Providers.Fallback.Name != "openai" {
		t.Errorf("expected openai fallback, got %q", cfg.Providers.Fallback.Name)
	}
	if cfg.Loop.RetryBudget != 3 {
		t.Errorf("expected retry budget 3, got %d", cfg.Loop.RetryBudget)
	}
	if cfg.Loop.ProbeTimeoutSeconds != 5 {
		t.Errorf("expected 5s probe timeout, got %d", cfg.Loop.ProbeTimeoutSeconds)
	}
	if cfg.Store.Collection != "game_rules" {
		t.Errorf("expected game_rules collection, got %q", cfg.Store.Collection)
	}
	if cfg.Loop.TimeoutIsSuccess {
		t.Error("timeout_is_success must default to false")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
providers:
  primary:
    name: ollama
    endpoint: http://localhost:11434
    code_model: deepseek-coder
  fallback:
    name: openai
    api_key: sk-test
loop:
  retry_budget: 5
  smoke_timeout_seconds: 12
store:
  path: /tmp/gameweaver-rules
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Providers.Primary.Endpoint != "http://localhost:11434" {
		t.Errorf("unexpected endpoint %q", cfg.Providers.Primary.Endpoint)
	}
	if cfg.Providers.Primary.CodeModel != "deepseek-coder" {
		t.Errorf("unexpected code model %q", cfg.Providers.Primary.CodeModel)
	}
	if cfg.Providers.Fallback.APIKey != "sk-test" {
		t.Errorf("unexpected api key %q", cfg.Providers.Fallback.APIKey)
	}
	if cfg.Loop.RetryBudget != 5 {
		t.Errorf("expected retry budget 5, got %d", cfg.Loop.RetryBudget)
	}
	if cfg.Loop.SmokeTimeoutSeconds != 12 {
		t.Errorf("expected 12s smoke timeout, got %d", cfg.Loop.SmokeTimeoutSeconds)
	}
	// Unset fields still get defaults.
	if cfg.Loop.CompileTimeoutSeconds != 10 {
		t.Errorf("expected default compile timeout, got %d", cfg.Loop.CompileTimeoutSeconds)
	}
	if cfg.Store.Path != "/tmp/gameweaver-rules" {
		t.Errorf("unexpected store path %q", cfg.Store.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GAMEWEAVER_LOOP_RETRY_BUDGET", "4")
	t.Setenv("GAMEWEAVER_PROVIDERS_FALLBACK_API_KEY", "sk-env")
	t.Setenv("GAMEWEAVER_STORE_COLLECTION", "alt_rules")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Loop.RetryBudget != 4 {
		t.Errorf("env override lost, retry budget %d", cfg.Loop.RetryBudget)
	}
	if cfg.Providers.Fallback.APIKey != "sk-env" {
		t.Errorf("env override lost, api key %q", cfg.Providers.Fallback.APIKey)
	}
	if cfg.Store.Collection != "alt_rules" {
		t.Errorf("env override lost, collection %q", cfg.Store.Collection)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	content := "loop:\n  retry_budget: 2\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("GAMEWEAVER_LOOP_RETRY_BUDGET", "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Loop.RetryBudget != 6 {
		t.Errorf("environment should override the file, got %d", cfg.Loop.RetryBudget)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be fatal: %v", err)
	}
	if cfg.Loop.RetryBudget != 3 {
		t.Errorf("expected defaults, got retry budget %d", cfg.Loop.RetryBudget)
	}
}

func TestValidateRejectsIdenticalProviders(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Providers.Fallback = cfg.Providers.Primary
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for identical primary and fallback")
	}
}

func TestValidateRejectsHugeBudget(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Loop.RetryBudget = 50
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for oversized retry budget")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.ProbeTimeout().Seconds() != 5 {
		t.Errorf("unexpected probe timeout %v", cfg.ProbeTimeout())
	}
	if cfg.CompileTimeout().Seconds() != 10 {
		t.Errorf("unexpected compile timeout %v", cfg.CompileTimeout())
	}
	if cfg.SmokeTimeout().Seconds() != 8 {
		t.Errorf("unexpected smoke timeout %v", cfg.SmokeTimeout())
	}
}
