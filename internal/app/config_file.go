package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/careflow/internal/report"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Server struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"server" json:"server"`

	Validation struct {
		MinWords int `yaml:"minWords" json:"minWords"`
		MaxChars int `yaml:"maxChars" json:"maxChars"`
	} `yaml:"validation" json:"validation"`

	Features struct {
		Summary  *bool `yaml:"summary" json:"summary"`
		SOAP     *bool `yaml:"soap" json:"soap"`
		Workflow *bool `yaml:"workflow" json:"workflow"`
	} `yaml:"features" json:"features"`

	Workflow struct {
		NegationAware *bool `yaml:"negationAware" json:"negationAware"`
	} `yaml:"workflow" json:"workflow"`

	LLM struct {
		Enable      bool          `yaml:"enable" json:"enable"`
		BaseURL     string        `yaml:"base" json:"base"`
		Model       string        `yaml:"model" json:"model"`
		APIKey      string        `yaml:"key" json:"key"`
		VisionModel string        `yaml:"visionModel" json:"visionModel"`
		Temperature *float64      `yaml:"temperature" json:"temperature"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"llm" json:"llm"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
		MaxCount    int           `yaml:"maxCount" json:"maxCount"`
		Only        bool          `yaml:"only" json:"only"`
	} `yaml:"cache" json:"cache"`

	Watch struct {
		In  string `yaml:"in" json:"in"`
		Out string `yaml:"out" json:"out"`
	} `yaml:"watch" json:"watch"`

	Output struct {
		Format string `yaml:"format" json:"format"`
	} `yaml:"output" json:"output"`

	Log struct {
		File    string `yaml:"file" json:"file"`
		Verbose bool   `yaml:"verbose" json:"verbose"`
	} `yaml:"log" json:"log"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset or still at their default. Flags should already
// have been parsed; file values never replace explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.Addr == "" || cfg.Addr == DefaultAddr) && fc.Server.Addr != "" {
		cfg.Addr = fc.Server.Addr
	}
	if cfg.MinWords == 0 && fc.Validation.MinWords > 0 {
		cfg.MinWords = fc.Validation.MinWords
	}
	if cfg.MaxChars == 0 && fc.Validation.MaxChars > 0 {
		cfg.MaxChars = fc.Validation.MaxChars
	}

	// Feature toggles default on; the file may only turn them off.
	if fc.Features.Summary != nil && !*fc.Features.Summary {
		cfg.DisableSummary = true
	}
	if fc.Features.SOAP != nil && !*fc.Features.SOAP {
		cfg.DisableSOAP = true
	}
	if fc.Features.Workflow != nil && !*fc.Features.Workflow {
		cfg.DisableWorkflow = true
	}
	if fc.Workflow.NegationAware != nil && !*fc.Workflow.NegationAware {
		cfg.NaiveWorkflow = true
	}

	if !cfg.UseLLM && fc.LLM.Enable {
		cfg.UseLLM = true
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.LLMVisionModel == "" && fc.LLM.VisionModel != "" {
		cfg.LLMVisionModel = fc.LLM.VisionModel
	}
	if (cfg.LLMTemperature == 0 || cfg.LLMTemperature == DefaultLLMTemperature) && fc.LLM.Temperature != nil {
		cfg.LLMTemperature = *fc.LLM.Temperature
	}
	if (cfg.LLMTimeout == 0 || cfg.LLMTimeout == DefaultLLMTimeout) && fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = fc.LLM.Timeout
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if cfg.CacheMaxBytes == 0 && fc.Cache.MaxBytes > 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	if cfg.CacheMaxCount == 0 && fc.Cache.MaxCount > 0 {
		cfg.CacheMaxCount = fc.Cache.MaxCount
	}
	if !cfg.LLMCacheOnly && fc.Cache.Only {
		cfg.LLMCacheOnly = true
	}

	if cfg.WatchIn == "" && fc.Watch.In != "" {
		cfg.WatchIn = fc.Watch.In
	}
	if cfg.WatchOut == "" && fc.Watch.Out != "" {
		cfg.WatchOut = fc.Watch.Out
	}
	if (cfg.Format == "" || cfg.Format == DefaultFormat) && fc.Output.Format != "" {
		cfg.Format = fc.Output.Format
	}
	if cfg.LogFile == "" && fc.Log.File != "" {
		cfg.LogFile = fc.Log.File
	}
	if !cfg.Verbose && fc.Log.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects inconsistent settings.
func ValidateConfig(cfg Config) error {
	if cfg.MinWords < 0 || cfg.MaxChars < 0 || cfg.CacheMaxBytes < 0 || cfg.CacheMaxCount < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.MaxChars > 0 && cfg.MinWords > cfg.MaxChars {
		return errors.New("config: validation.minWords cannot exceed validation.maxChars")
	}
	if _, err := report.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: output.format: %w", err)
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		return errors.New("config: llm.temperature must be within 0..2")
	}
	if cfg.UseLLM && trim(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required when the LLM drafter is enabled (or set LLM_MODEL)")
	}
	if cfg.DisableSummary && cfg.DisableSOAP && cfg.DisableWorkflow {
		return errors.New("config: at least one of summary, soap or workflow must be enabled")
	}
	if trim(cfg.WatchIn) != "" && filepath.Clean(cfg.WatchIn) == filepath.Clean(cfg.WatchOut) {
		return errors.New("config: watch.in and watch.out must differ")
	}
	return nil
}

func trim(s string) string {
	i := 0
	j := len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') {
		j--
	}
	return s[i:j]
}
