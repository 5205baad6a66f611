package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, def string, envKey string) {
		if *dst != "" && *dst != def {
			return
		}
		if v := os.Getenv(envKey); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Addr, DefaultAddr, "CAREFLOW_ADDR")
	setString(&cfg.LLMBaseURL, "", "LLM_BASE_URL")
	setString(&cfg.LLMModel, "", "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "", "LLM_API_KEY")
	setString(&cfg.LLMVisionModel, "", "LLM_VISION_MODEL")
	setString(&cfg.CacheDir, DefaultCacheDir, "CACHE_DIR")
	setString(&cfg.LogFile, "", "CAREFLOW_LOG_FILE")

	setInt := func(dst *int, envKey string) {
		if *dst != 0 {
			return
		}
		if n, ok := envInt(envKey); ok {
			*dst = n
		}
	}
	setInt(&cfg.MinWords, "CAREFLOW_MIN_WORDS")
	setInt(&cfg.MaxChars, "CAREFLOW_MAX_CHARS")

	if cfg.CacheMaxAge == 0 {
		if d, ok := envDuration("CACHE_MAX_AGE"); ok {
			cfg.CacheMaxAge = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if v, ok := envBool(envKey); ok && v {
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.UseLLM, "CAREFLOW_USE_LLM")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.LLMCacheOnly, "LLM_CACHE_ONLY")
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This lets env take precedence
// over values coming from a config file while flags remain highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := os.Getenv("CAREFLOW_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("LLM_VISION_MODEL"); v != "" {
		cfg.LLMVisionModel = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("CAREFLOW_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if n, ok := envInt("CAREFLOW_MIN_WORDS"); ok {
		cfg.MinWords = n
	}
	if n, ok := envInt("CAREFLOW_MAX_CHARS"); ok {
		cfg.MaxChars = n
	}
	if d, ok := envDuration("CACHE_MAX_AGE"); ok {
		cfg.CacheMaxAge = d
	}
	setBool := func(dst *bool, envKey string) {
		if v, ok := envBool(envKey); ok {
			*dst = v
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.UseLLM, "CAREFLOW_USE_LLM")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.LLMCacheOnly, "LLM_CACHE_ONLY")
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// envBool accepts 1/true/yes/on and 0/false/no/off; anything else is unset.
func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
