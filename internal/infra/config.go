package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	VolcAccessKey      string
	VolcSecretKey      string
	VolcRegion         string
	VolcEndpoint       string
	VolcReqKey         string
	UpstreamTimeout    time.Duration
	GeoIPDBPath        string
	DefaultLocale      string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Upstream credentials are optional here: the server boots without them and every
// upstream call fails fast until they are provided.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8000"),
		VolcAccessKey:      strings.TrimSpace(os.Getenv("VOLCANO_ACCESS_KEY")),
		VolcSecretKey:      strings.TrimSpace(os.Getenv("VOLCANO_SECRET_KEY")),
		VolcRegion:         getEnv("VOLCANO_REGION", "cn-north-1"),
		VolcEndpoint:       getEnv("VOLCANO_ENDPOINT", "https://visual.volcengineapi.com"),
		VolcReqKey:         getEnv("VOLCANO_REQ_KEY", "jimeng_t2i_v40"),
		UpstreamTimeout:    time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 60)),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "zh"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	return cfg, nil
}

// HasUpstreamCredentials reports whether both Volcengine keys are present.
func (c *Config) HasUpstreamCredentials() bool {
	return c != nil && c.VolcAccessKey != "" && c.VolcSecretKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
