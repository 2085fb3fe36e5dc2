package config

import (
	"os"
	"strconv"
	"time"
)

type Settings struct {
	Server  ServerConfig
	Fetcher FetcherConfig
	Probe   ProbeConfig
	Browser BrowserConfig
	AI      AIConfig
	Colly   CollyConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type FetcherConfig struct {
	UserAgent           string
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
}

type ProbeConfig struct {
	UserAgent string
	Timeout   time.Duration
	Workers   int
}

type BrowserConfig struct {
	UserAgent   string
	SettleDelay time.Duration
	Timeout     time.Duration
	Headless    bool
}

type AIConfig struct {
	Backend    string
	Model      string
	APIKey     string
	Endpoint   string
	MaxTokens  int
	MaxRetries int
	RetryDelay time.Duration
}

type CollyConfig struct {
	Enabled   bool
	UserAgent string
	Timeout   time.Duration
	DebugMode bool
}

func Load() *Settings {
	userAgent := getEnv("USER_AGENT", "Mozilla/5.0 (compatible; PageHealthChecker/1.0)")

	return &Settings{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8081"),
			ReadTimeout:  getDurationEnv("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		},
		Fetcher: FetcherConfig{
			UserAgent:           userAgent,
			Timeout:             getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
			MaxIdleConns:        getIntEnv("MAX_IDLE_CONNS", 200),
			MaxIdleConnsPerHost: getIntEnv("MAX_IDLE_CONNS_PER_HOST", 50),
			MaxConnsPerHost:     getIntEnv("MAX_CONNS_PER_HOST", 100),
			IdleConnTimeout:     getDurationEnv("IDLE_CONN_TIMEOUT", 30*time.Second),
			TLSHandshakeTimeout: getDurationEnv("TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
		},
		Probe: ProbeConfig{
			UserAgent: userAgent,
			Timeout:   getDurationEnv("PROBE_TIMEOUT", 10*time.Second),
			Workers:   getIntEnv("PROBE_WORKERS", 8),
		},
		Browser: BrowserConfig{
			UserAgent:   userAgent,
			SettleDelay: getDurationEnv("BROWSER_SETTLE_DELAY", 3*time.Second),
			Timeout:     getDurationEnv("BROWSER_TIMEOUT", 45*time.Second),
			Headless:    getBoolEnv("BROWSER_HEADLESS", true),
		},
		AI: AIConfig{
			Backend:    getEnv("AI_BACKEND", "direct"),
			Model:      getEnv("AI_MODEL", "gpt-4o-mini"),
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			Endpoint:   getEnv("AI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
			MaxTokens:  getIntEnv("AI_MAX_TOKENS", 1000),
			MaxRetries: getIntEnv("AI_MAX_RETRIES", 3),
			RetryDelay: getDurationEnv("AI_RETRY_DELAY", 5*time.Second),
		},
		Colly: CollyConfig{
			Enabled:   getBoolEnv("COLLY_ENABLED", false),
			UserAgent: getEnv("COLLY_USER_AGENT", userAgent),
			Timeout:   getDurationEnv("COLLY_TIMEOUT", 10*time.Second),
			DebugMode: getBoolEnv("COLLY_DEBUG", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
