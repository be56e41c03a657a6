package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// GatewayConfig holds the remote task service transport configuration
type GatewayConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	AuthSecret  string        `mapstructure:"auth_secret"`
	AuthIssuer  string        `mapstructure:"auth_issuer"`
	AuthSubject string        `mapstructure:"auth_subject"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	// RateLimit is requests per second; zero disables throttling.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// ServerConfig holds configuration of the reference task service
type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	Host               string        `mapstructure:"host"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
	// AuthSecret, when set, makes the service require a bearer JWT signed with it.
	AuthSecret string `mapstructure:"auth_secret"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load loads configuration from defaults, an optional .env file and the environment
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "tasksync")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Gateway defaults
	v.SetDefault("gateway.base_url", "http://localhost:3001/")
	v.SetDefault("gateway.timeout", "5s")
	v.SetDefault("gateway.auth_secret", "")
	v.SetDefault("gateway.auth_issuer", "tasksync")
	v.SetDefault("gateway.auth_subject", "dashboard")
	v.SetDefault("gateway.token_ttl", "15m")
	v.SetDefault("gateway.rate_limit", 0)
	v.SetDefault("gateway.rate_burst", 1)

	// Reference service defaults
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.cors_allowed_origins", "*")
	v.SetDefault("server.rate_limit_requests", 0)
	v.SetDefault("server.rate_limit_window", "1m")
	v.SetDefault("server.auth_secret", "")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Gateway
	v.BindEnv("gateway.base_url", "TASKSYNC_GATEWAY_BASE_URL")
	v.BindEnv("gateway.timeout", "TASKSYNC_GATEWAY_TIMEOUT")
	v.BindEnv("gateway.auth_secret", "TASKSYNC_GATEWAY_AUTH_SECRET")
	v.BindEnv("gateway.auth_issuer", "TASKSYNC_GATEWAY_AUTH_ISSUER")
	v.BindEnv("gateway.auth_subject", "TASKSYNC_GATEWAY_AUTH_SUBJECT")
	v.BindEnv("gateway.token_ttl", "TASKSYNC_GATEWAY_TOKEN_TTL")
	v.BindEnv("gateway.rate_limit", "TASKSYNC_GATEWAY_RATE_LIMIT")
	v.BindEnv("gateway.rate_burst", "TASKSYNC_GATEWAY_RATE_BURST")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("server.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("server.rate_limit_window", "RATE_LIMIT_WINDOW")
	v.BindEnv("server.auth_secret", "SERVER_AUTH_SECRET")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
	v.BindEnv("metrics.port", "METRICS_PORT")
}

func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Gateway.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("gateway base url %q must be an absolute URL", cfg.Gateway.BaseURL)
	}

	if cfg.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}

	if cfg.Gateway.RateLimit < 0 {
		return fmt.Errorf("gateway rate limit cannot be negative")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Metrics.Enabled && (cfg.Metrics.Port <= 0 || cfg.Metrics.Port > 65535) {
		return fmt.Errorf("metrics port must be between 1 and 65535")
	}

	return nil
}

// GetAddr returns the listen address of the reference service
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
