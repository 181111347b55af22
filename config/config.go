package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ConsentTextScan = "text-scan"
	ConsentSelector = "selector"

	FieldsCore = "core"
	FieldsFull = "full"
)

// Config holds all process-wide configuration loaded from environment variables.
type Config struct {
	Host            string        `validate:"omitempty,hostname|ip"`
	Port            int           `validate:"min=1,max=65535"`
	CorsOrigins     []string      `validate:"min=1"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error disabled off"`
	LogFormat string `validate:"oneof=console json"`

	TargetURL       string `validate:"required,http_url"`
	ChromeBin       string
	PackingMode     string `validate:"oneof=flag budget"`
	ConsentStrategy string `validate:"oneof=text-scan selector"`
	ConsentSelector string `validate:"required"`
	ConsentLabel    string `validate:"required"`
	ExtractFields   string `validate:"oneof=core full"`

	MaxConcurrentSessions int `validate:"min=1"`
	LaunchIntervalMs      int `validate:"min=0"`

	// Defaults applied when a request leaves the matching parameter out.
	Defaults RequestOptions
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	packing := strings.ToLower(getEnv("HASHTAG_PACKING", "flag"))

	return &Config{
		Host:            getEnv("HOST", ""),
		Port:            getEnvInt("PORT", 3000),
		CorsOrigins:     getEnvSlice("CORS_ORIGINS", []string{"*"}),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_MS", 10000)) * time.Millisecond,

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "console")),

		TargetURL:       getEnv("TARGET_URL", "https://trends24.in/"),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		PackingMode:     packing,
		ConsentStrategy: strings.ToLower(getEnv("CONSENT_STRATEGY", ConsentTextScan)),
		ConsentSelector: getEnv("CONSENT_SELECTOR", "button.css-47sehv span"),
		ConsentLabel:    getEnv("CONSENT_LABEL", "AGREE"),
		ExtractFields:   strings.ToLower(getEnv("EXTRACT_FIELDS", FieldsFull)),

		MaxConcurrentSessions: getEnvInt("MAX_CONCURRENT_SESSIONS", 2),
		LaunchIntervalMs:      getEnvInt("LAUNCH_INTERVAL_MS", 0),

		Defaults: RequestOptions{
			PackingMode:          packing,
			EnglishOnly:          getEnvBool("DEFAULT_ENGLISH_ONLY", packing == "budget"),
			HashtagOnly:          getEnvBool("DEFAULT_HASHTAG_ONLY", true),
			TweetMaxChars:        getEnvInt("DEFAULT_TWEET_MAX_CHARS", 280),
			TimeoutPageLoad:      getEnvInt("TIMEOUT_PAGE_LOAD", 30000),
			TimeoutCookieConsent: getEnvInt("TIMEOUT_COOKIE_CONSENT", 3000),
			TimeoutTabClick:      getEnvInt("TIMEOUT_TAB_CLICK", 1000),
		},
	}
}

// Validate checks the loaded values, including the request defaults.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", describe(err))
	}
	if c.Defaults.PackingMode != c.PackingMode {
		return fmt.Errorf("config: default packing mode %q does not match %q", c.Defaults.PackingMode, c.PackingMode)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
