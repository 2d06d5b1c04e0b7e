package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/godilite/a11y-check/pkg/pagespeed"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// VariantVersioned serves the raw, grouped (v1) and severity (v2) routes.
	VariantVersioned = "versioned"
	// VariantDiagnostics serves one unversioned route with the flat audit list.
	VariantDiagnostics = "diagnostics"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv  string
	Variant string

	HTTPPort         int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	BasePath         string
	StaticDir        string
	TrustProxy       bool

	PageSpeedAPIKey string
	PageSpeedURL    string
	HTTPTimeout     time.Duration
	LogURLs         bool

	CORSAllowedOrigins []string
	CORSDomainSuffix   string
	SecurityRulesPath  string

	GRPCHealthPort        int
	GRPCReflectionEnabled bool
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:  getEnv("APP_ENV", EnvProduction),
		Variant: getEnv("API_VARIANT", VariantVersioned),

		HTTPPort:         getInt("PORT", 8080),
		HTTPReadTimeout:  time.Duration(getInt("HTTP_READ_TIMEOUT", 10)) * time.Second,
		HTTPWriteTimeout: time.Duration(getInt("HTTP_WRITE_TIMEOUT", 150)) * time.Second,
		BasePath:         getEnv("API_BASE_PATH", "/api"),
		StaticDir:        getEnv("STATIC_DIR", "public"),
		TrustProxy:       getBool("TRUST_PROXY", false),

		PageSpeedAPIKey: os.Getenv("PAGESPEED_API_KEY"),
		PageSpeedURL:    getEnv("PAGESPEED_API_URL", pagespeed.DefaultBaseURL),
		HTTPTimeout:     time.Duration(getInt("HTTP_TIMEOUT", 60)) * time.Second,
		LogURLs:         getBool("LOG_URLS", false),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "https://arcinclusion.com")),
		CORSDomainSuffix:   getEnv("CORS_ALLOWED_DOMAIN_SUFFIX", ".arcinclusion.com"),
		SecurityRulesPath:  getEnv("SECURITY_RULES", "configs/security.yaml"),

		GRPCHealthPort:        getInt("GRPC_HEALTH_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
	}
}

// IsDevelopment reports whether errors may expose internals to clients. Only an
// explicit APP_ENV=development counts.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == EnvProduction {
		return zap.NewProduction()
	}

	zcfg := zap.NewDevelopmentConfig()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zcfg.Build()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
