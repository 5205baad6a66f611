package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestApplyFileConfig_KeepsExplicitFlags(t *testing.T) {
	p := writeFile(t, t.TempDir(), "careflow.yaml", `
server:
  addr: ":7000"
validation:
  minWords: 12
features:
  soap: false
workflow:
  negationAware: false
llm:
  enable: true
  model: file-model
  temperature: 0.5
  timeout: 30s
cache:
  dir: /tmp/file-cache
  maxAge: 48h
output:
  format: json
log:
  file: careflow.log
`)
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := DefaultConfig()
	cfg.LLMModel = "flag-model"
	cfg.Addr = ":9999"
	ApplyFileConfig(&cfg, fc)

	if cfg.Addr != ":9999" || cfg.LLMModel != "flag-model" {
		t.Fatalf("explicit flags overwritten: addr=%q model=%q", cfg.Addr, cfg.LLMModel)
	}
	if cfg.MinWords != 12 || !cfg.DisableSOAP || cfg.DisableSummary || !cfg.NaiveWorkflow {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.UseLLM || cfg.LLMTemperature != 0.5 || cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("llm section not applied: %+v", cfg)
	}
	if cfg.CacheDir != "/tmp/file-cache" || cfg.CacheMaxAge != 48*time.Hour {
		t.Fatalf("cache section not applied: %+v", cfg)
	}
	if cfg.Format != "json" || cfg.LogFile != "careflow.log" {
		t.Fatalf("output/log not applied: %+v", cfg)
	}
}

func TestLoadConfigFile_JSONAndErrors(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "careflow.json", `{"server":{"addr":":7100"},"cache":{"maxCount":50}}`)
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if fc.Server.Addr != ":7100" || fc.Cache.MaxCount != 50 {
		t.Fatalf("unexpected file config: %+v", fc)
	}
	bad := writeFile(t, dir, "bad.yaml", "server: [")
	if _, err := LoadConfigFile(bad); err == nil || !strings.Contains(err.Error(), "parse yaml") {
		t.Fatalf("expected yaml parse error, got %v", err)
	}
	if _, err := LoadConfigFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
	cases := map[string]func(*Config){
		"negative":     func(c *Config) { c.MinWords = -1 },
		"min over max": func(c *Config) { c.MinWords = 20; c.MaxChars = 10 },
		"format":       func(c *Config) { c.Format = "rtf" },
		"temperature":  func(c *Config) { c.LLMTemperature = 3 },
		"llm no model": func(c *Config) { c.UseLLM = true },
		"all disabled": func(c *Config) { c.DisableSummary, c.DisableSOAP, c.DisableWorkflow = true, true, true },
		"watch same":   func(c *Config) { c.WatchIn, c.WatchOut = "inbox", "inbox/" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := ValidateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
