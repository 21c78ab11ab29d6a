// Package config loads gameweaver configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from override variables, e.g.
// GAMEWEAVER_LOOP_RETRY_BUDGET -> loop.retry_budget.
const envPrefix = "GAMEWEAVER_"

// ProviderSpec describes one model provider.
type ProviderSpec struct {
	// Name is the gollm provider identifier, e.g. "ollama" or "openai".
	Name string `koanf:"name"`

	// Endpoint overrides the provider's default API endpoint.
	Endpoint string `koanf:"endpoint"`

	// APIKey authenticates against the provider. Local providers leave it
	// empty.
	APIKey string `koanf:"api_key"`

	// CodeModel is used for code generation, RulesModel for rules text.
	CodeModel  string `koanf:"code_model"`
	RulesModel string `koanf:"rules_model"`
}

// ProvidersConfig pairs the primary provider with its fallback.
type ProvidersConfig struct {
	Primary  ProviderSpec `koanf:"primary"`
	Fallback ProviderSpec `koanf:"fallback"`
}

// LoopConfig tunes the generation loop and validation stages.
type LoopConfig struct {
	RetryBudget           int  `koanf:"retry_budget"`
	ProbeTimeoutSeconds   int  `koanf:"probe_timeout_seconds"`
	CompileTimeoutSeconds int  `koanf:"compile_timeout_seconds"`
	SmokeTimeoutSeconds   int  `koanf:"smoke_timeout_seconds"`
	TimeoutIsSuccess      bool `koanf:"timeout_is_success"`
}

// StoreConfig locates the rule metadata store.
type StoreConfig struct {
	Path       string `koanf:"path"`
	Collection string `koanf:"collection"`
}

// Config is the root configuration.
type Config struct {
	Providers ProvidersConfig `koanf:"providers"`
	Loop      LoopConfig      `koanf:"loop"`
	Store     StoreConfig     `koanf:"store"`
}

// ProbeTimeout returns the probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Loop.ProbeTimeoutSeconds) * time.Second
}

// CompileTimeout returns the compile timeout as a duration.
func (c *Config) CompileTimeout() time.Duration {
	return time.Duration(c.Loop.CompileTimeoutSeconds) * time.Second
}

// SmokeTimeout returns the smoke-run timeout as a duration.
func (c *Config) SmokeTimeout() time.Duration {
	return time.Duration(c.Loop.SmokeTimeoutSeconds) * time.Second
}

// Load reads configuration from the YAML file at configPath (skipped when
// empty or absent), then applies GAMEWEAVER_* environment overrides, then
// defaults.
//
// Precedence (highest to lowest):
//  1. Environment variables (GAMEWEAVER_LOOP_RETRY_BUDGET, ...)
//  2. YAML config file
//  3. Defaults
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", configPath, err)
		}
	}

	// GAMEWEAVER_PROVIDERS_PRIMARY_NAME -> providers.primary.name
	// GAMEWEAVER_LOOP_RETRY_BUDGET -> loop.retry_budget
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		section := parts[0]
		rest := parts[1]
		if section == "providers" {
			// Second level is the provider role, the remainder is the
			// field name with its underscores intact.
			sub := strings.SplitN(rest, "_", 2)
			if len(sub) == 2 {
				return section + "." + sub[0] + "." + sub[1]
			}
		}
		return section + "." + rest
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Providers.Primary.Name == "" {
		c.Providers.Primary.Name = "ollama"
	}
	if c.Providers.Primary.CodeModel == "" {
		c.Providers.Primary.CodeModel = "codellama"
	}
	if c.Providers.Primary.RulesModel == "" {
		c.Providers.Primary.RulesModel = "llama3"
	}
	if c.Providers.Fallback.Name == "" {
		c.Providers.Fallback.Name = "openai"
	}
	if c.Providers.Fallback.CodeModel == "" {
		c.Providers.Fallback.CodeModel = "gpt-4o"
	}
	if c.Providers.Fallback.RulesModel == "" {
		c.Providers.Fallback.RulesModel = "gpt-4o-mini"
	}
	if c.Loop.RetryBudget <= 0 {
		c.Loop.RetryBudget = 3
	}
	if c.Loop.ProbeTimeoutSeconds <= 0 {
		c.Loop.ProbeTimeoutSeconds = 5
	}
	if c.Loop.CompileTimeoutSeconds <= 0 {
		c.Loop.CompileTimeoutSeconds = 10
	}
	if c.Loop.SmokeTimeoutSeconds <= 0 {
		c.Loop.SmokeTimeoutSeconds = 8
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "game_rules"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Providers.Primary.Name == c.Providers.Fallback.Name &&
		c.Providers.Primary.Endpoint == c.Providers.Fallback.Endpoint {
		return fmt.Errorf("config: primary and fallback providers are identical")
	}
	if c.Loop.RetryBudget > 10 {
		return fmt.Errorf("config: retry budget %d is unreasonably large (max 10)", c.Loop.RetryBudget)
	}
	return nil
}
