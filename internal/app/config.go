package app

import "time"

// Defaults applied by DefaultConfig. ApplyFileConfig treats a field that
// still holds its default as unset.
const (
	DefaultAddr           = ":8080"
	DefaultCacheDir       = ".careflow-cache"
	DefaultFormat         = "markdown"
	DefaultLLMTemperature = 0.2
	DefaultLLMTimeout     = 60 * time.Second
)

// Config holds runtime configuration for the application.
type Config struct {
	// File runs
	InputPath  string
	OutputPath string
	Format     string

	// Server
	Addr string

	// Validation limits; zero means the package default.
	MinWords int
	MaxChars int

	// Processors
	DisableSummary  bool
	DisableSOAP     bool
	DisableWorkflow bool
	// NaiveWorkflow turns off negation handling in urgent rules.
	NaiveWorkflow bool

	// LLM
	UseLLM         bool
	LLMBaseURL     string
	LLMModel       string
	LLMAPIKey      string
	LLMVisionModel string
	LLMTemperature float64
	LLMTimeout     time.Duration

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	CacheMaxBytes    int64
	CacheMaxCount    int
	LLMCacheOnly     bool

	// Watch
	WatchIn  string
	WatchOut string

	// Logging
	Verbose bool
	LogFile string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Format:         DefaultFormat,
		Addr:           DefaultAddr,
		CacheDir:       DefaultCacheDir,
		LLMTemperature: DefaultLLMTemperature,
		LLMTimeout:     DefaultLLMTimeout,
	}
}

// LLMConfigured reports whether an LLM backend and model are set.
func (c Config) LLMConfigured() bool {
	return trim(c.LLMModel) != "" && (trim(c.LLMBaseURL) != "" || trim(c.LLMAPIKey) != "")
}
