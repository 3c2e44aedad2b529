package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const bootErrorPrefix = "[CRITICAL_BOOT_ERROR]: Missing required environment variables: "

type Config struct {
	AppPort             string
	GatewayURL          string
	GatewayAnonKey      string
	TrustedProxies      []string
	GeminiAPIKey        string
	AIUseCloud          bool
	SnapshotDir         string
	RealtimeFullRefetch bool
	Timezone            *time.Location
	SessionTTL          time.Duration
	TranslationFolder   string
}

// MissingEnvError lists the required variables that were not set.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return bootErrorPrefix + strings.Join(e.Keys, ", ")
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	var missing []string
	required := func(key string) string {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	cfg := &Config{
		AppPort:             getEnv("APP_PORT", "8080"),
		GatewayURL:          required("GATEWAY_URL"),
		GatewayAnonKey:      required("GATEWAY_ANON_KEY"),
		TrustedProxies:      parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		AIUseCloud:          getBool("AI_USE_CLOUD", false),
		SnapshotDir:         getEnv("SNAPSHOT_DIR", ".data/snapshots"),
		RealtimeFullRefetch: getBool("REALTIME_FULL_REFETCH", false),
		SessionTTL:          720 * time.Hour,
		TranslationFolder:   getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Keys: missing}
	}

	if !strings.Contains(cfg.GatewayURL, "://") {
		return nil, fmt.Errorf("GATEWAY_URL must look like <driver>://<dsn>, got %q", cfg.GatewayURL)
	}

	loc, err := loadTimezone()
	if err != nil {
		return nil, err
	}
	cfg.Timezone = loc

	if raw := getEnv("SESSION_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q", raw)
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}

// ToolConfig is the subset the ops CLI needs; it does not require the API keys.
type ToolConfig struct {
	GatewayURL string
	Timezone   *time.Location
}

func LoadToolConfig() (*ToolConfig, error) {
	_ = godotenv.Load(".env")

	url := strings.TrimSpace(os.Getenv("GATEWAY_URL"))
	if url == "" {
		return nil, &MissingEnvError{Keys: []string{"GATEWAY_URL"}}
	}
	loc, err := loadTimezone()
	if err != nil {
		return nil, err
	}
	return &ToolConfig{GatewayURL: url, Timezone: loc}, nil
}

func loadTimezone() (*time.Location, error) {
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
