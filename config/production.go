// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	JWT        JWTConfig        `json:"jwt"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	Pricing    PricingConfig    `json:"pricing"`
	Estimation EstimationConfig `json:"estimation"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	Enabled         bool          `json:"enabled"`
	Driver          string        `json:"driver"` // postgres, mysql
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryLog    bool          `json:"slow_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
	AutoMigrate     bool          `json:"auto_migrate"`
}

// DSN builds the driver specific connection string
func (c DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type ServerConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	BodyLimit         int           `json:"body_limit"`
	EnableSwagger     bool          `json:"enable_swagger"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	ProxyHeader       string        `json:"proxy_header"`
	EnableCompression bool          `json:"enable_compression"`
}

type SecurityConfig struct {
	// TLS/HTTPS
	TLSEnabled  bool   `json:"tls_enabled"`
	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`
	HSTSMaxAge  int    `json:"hsts_max_age"`

	// CORS
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	CORSMaxAge       int      `json:"cors_max_age"`

	// Rate Limiting
	GlobalRateLimit  int           `json:"global_rate_limit"` // requests per window
	PricingRateLimit int           `json:"pricing_rate_limit"`
	RateLimitWindow  time.Duration `json:"rate_limit_window"`

	// Content Security
	CSPPolicy           string `json:"csp_policy"`
	XFrameOptions       string `json:"x_frame_options"`
	XContentTypeOptions string `json:"x_content_type_options"`
	ReferrerPolicy      string `json:"referrer_policy"`
}

type JWTConfig struct {
	SecretKey   string        `json:"secret_key"`
	PrivateKey  string        `json:"private_key"`  // RSA private key in PEM format
	PublicKey   string        `json:"public_key"`   // RSA public key in PEM format
	UseRSAKeys  bool          `json:"use_rsa_keys"` // Whether to use RSA keys instead of secret key
	OperatorTTL time.Duration `json:"operator_ttl"`
	Issuer      string        `json:"issuer"`
	Audience    string        `json:"audience"`
}

type LoggingConfig struct {
	Level        string `json:"level"`  // debug, info, warn, error
	Format       string `json:"format"` // json, text
	Output       string `json:"output"` // stdout, file, both
	FilePath     string `json:"file_path"`
	MaxSize      int    `json:"max_size"` // MB
	MaxBackups   int    `json:"max_backups"`
	MaxAge       int    `json:"max_age"` // days
	Compress     bool   `json:"compress"`
	EnableCaller bool   `json:"enable_caller"`

	// Access Logs
	EnableAccessLog bool   `json:"enable_access_log"`
	AccessLogFormat string `json:"access_log_format"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled             bool          `json:"enabled"`
	RedisURL            string        `json:"redis_url"`
	RedisDB             int           `json:"redis_db"`
	RedisPrefix         string        `json:"redis_prefix"`
	HealthCheckInterval time.Duration `json:"health_check_interval"`
}

type PricingConfig struct {
	Store              string        `json:"store"` // memory, persistent
	HistoryLimit       int           `json:"history_limit"`
	HistoryDefaultDays int           `json:"history_default_days"`
	TrendThreshold     float64       `json:"trend_threshold"`
	SeedCatalog        bool          `json:"seed_catalog"`
	FeedProvider       string        `json:"feed_provider"` // simulated, http
	FeedURL            string        `json:"feed_url"`
	FeedAPIKey         string        `json:"feed_api_key"`
	FeedTimeout        time.Duration `json:"feed_timeout"`
	FeedSeed           int64         `json:"feed_seed"`
	FeedVolatility     float64       `json:"feed_volatility"`
	SchedulerEnabled   bool          `json:"scheduler_enabled"`
	RefreshInterval    time.Duration `json:"refresh_interval"`
	RefreshLockTTL     time.Duration `json:"refresh_lock_ttl"`
	SnapshotTTL        time.Duration `json:"snapshot_ttl"`
}

type EstimationConfig struct {
	OverheadFraction           float64 `json:"overhead_fraction"`
	CirculationFraction        float64 `json:"circulation_fraction"`
	MinRoomArea                float64 `json:"min_room_area"`
	ScaleCountsWithMultipliers bool    `json:"scale_counts_with_multipliers"`
	OverridesFile              string  `json:"overrides_file"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
	BuildTime   string `json:"build_time"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	// Variables already present in the environment win over .env
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DB_ENABLED", true),
			Driver:          getEnvString("DB_DRIVER", "postgres"),
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "constructai"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			SlowQueryLog:    getEnvBool("DB_SLOW_QUERY_LOG", true),
			SlowQueryTime:   getEnvDuration("DB_SLOW_QUERY_TIME", 1*time.Second),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Host:              getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:              getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RequestTimeout:    getEnvDuration("SERVER_REQUEST_TIMEOUT", 15*time.Second),
			BodyLimit:         getEnvInt("SERVER_BODY_LIMIT", 1*1024*1024), // 1MB
			EnableSwagger:     getEnvBool("SERVER_ENABLE_SWAGGER", false),
			TrustedProxies:    getEnvStringSlice("SERVER_TRUSTED_PROXIES", []string{"127.0.0.1"}),
			ProxyHeader:       getEnvString("SERVER_PROXY_HEADER", "X-Real-IP"),
			EnableCompression: getEnvBool("SERVER_ENABLE_COMPRESSION", true),
		},
		Security: SecurityConfig{
			TLSEnabled:          getEnvBool("TLS_ENABLED", false),
			TLSCertFile:         getEnvString("TLS_CERT_FILE", ""),
			TLSKeyFile:          getEnvString("TLS_KEY_FILE", ""),
			HSTSMaxAge:          getEnvInt("HSTS_MAX_AGE", 31536000), // 1 year
			AllowedOrigins:      getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:      getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:      getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}),
			AllowCredentials:    getEnvBool("CORS_ALLOW_CREDENTIALS", false),
			CORSMaxAge:          getEnvInt("CORS_MAX_AGE", 86400),
			GlobalRateLimit:     getEnvInt("GLOBAL_RATE_LIMIT", 600),
			PricingRateLimit:    getEnvInt("PRICING_RATE_LIMIT", 60),
			RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
			CSPPolicy:           getEnvString("CSP_POLICY", "default-src 'self'"),
			XFrameOptions:       getEnvString("X_FRAME_OPTIONS", "DENY"),
			XContentTypeOptions: getEnvString("X_CONTENT_TYPE_OPTIONS", "nosniff"),
			ReferrerPolicy:      getEnvString("REFERRER_POLICY", "strict-origin-when-cross-origin"),
		},
		JWT: JWTConfig{
			SecretKey:   getEnvString("JWT_SECRET_KEY", ""),
			PrivateKey:  getEnvString("JWT_PRIVATE_KEY", ""),
			PublicKey:   getEnvString("JWT_PUBLIC_KEY", ""),
			UseRSAKeys:  getEnvBool("JWT_USE_RSA_KEYS", false),
			OperatorTTL: getEnvDuration("JWT_OPERATOR_TTL", 30*24*time.Hour),
			Issuer:      getEnvString("JWT_ISSUER", "constructai"),
			Audience:    getEnvString("JWT_AUDIENCE", "constructai-pricing"),
		},
		Logging: LoggingConfig{
			Level:           getEnvString("LOG_LEVEL", "info"),
			Format:          getEnvString("LOG_FORMAT", "json"),
			Output:          getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:        getEnvString("LOG_FILE_PATH", "/var/log/constructai/app.log"),
			MaxSize:         getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:          getEnvInt("LOG_MAX_AGE", 30),
			Compress:        getEnvBool("LOG_COMPRESS", true),
			EnableCaller:    getEnvBool("LOG_ENABLE_CALLER", false),
			EnableAccessLog: getEnvBool("LOG_ENABLE_ACCESS", true),
			AccessLogFormat: getEnvString("LOG_ACCESS_FORMAT", "${time} ${status} ${method} ${path} ${latency} ${locals:requestid}\n"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled:             getEnvBool("CACHE_ENABLED", false),
			RedisURL:            getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:             getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix:         getEnvString("CACHE_REDIS_PREFIX", "constructai:"),
			HealthCheckInterval: getEnvDuration("CACHE_HEALTH_CHECK_INTERVAL", 30*time.Second),
		},
		Pricing: PricingConfig{
			Store:              getEnvString("PRICING_STORE", "persistent"),
			HistoryLimit:       getEnvInt("PRICING_HISTORY_LIMIT", 30),
			HistoryDefaultDays: getEnvInt("PRICING_HISTORY_DEFAULT_DAYS", 30),
			TrendThreshold:     getEnvFloat("PRICING_TREND_THRESHOLD", 2.0),
			SeedCatalog:        getEnvBool("PRICING_SEED_CATALOG", true),
			FeedProvider:       getEnvString("PRICING_FEED_PROVIDER", "simulated"),
			FeedURL:            getEnvString("PRICING_FEED_URL", ""),
			FeedAPIKey:         getEnvString("PRICING_FEED_API_KEY", ""),
			FeedTimeout:        getEnvDuration("PRICING_FEED_TIMEOUT", 10*time.Second),
			FeedSeed:           int64(getEnvInt("PRICING_FEED_SEED", 1)),
			FeedVolatility:     getEnvFloat("PRICING_FEED_VOLATILITY", 2.0),
			SchedulerEnabled:   getEnvBool("PRICING_SCHEDULER_ENABLED", false),
			RefreshInterval:    getEnvDuration("PRICING_REFRESH_INTERVAL", 6*time.Hour),
			RefreshLockTTL:     getEnvDuration("PRICING_REFRESH_LOCK_TTL", 5*time.Minute),
			SnapshotTTL:        getEnvDuration("PRICING_SNAPSHOT_TTL", 5*time.Minute),
		},
		Estimation: EstimationConfig{
			OverheadFraction:           getEnvFloat("ESTIMATION_OVERHEAD_FRACTION", 0.10),
			CirculationFraction:        getEnvFloat("ESTIMATION_CIRCULATION_FRACTION", 0.10),
			MinRoomArea:                getEnvFloat("ESTIMATION_MIN_ROOM_AREA", 40),
			ScaleCountsWithMultipliers: getEnvBool("ESTIMATION_SCALE_COUNTS", false),
			OverridesFile:              getEnvString("ESTIMATION_OVERRIDES_FILE", ""),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "production"),
			Version:     getEnvString("VERSION", "1.0.0"),
			CommitHash:  getEnvString("COMMIT_HASH", "unknown"),
			BuildTime:   getEnvString("BUILD_TIME", "unknown"),
		},
	}

	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	// Validate database configuration
	if cfg.Database.Enabled {
		if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "mysql" {
			errors = append(errors, "DB_DRIVER must be one of: postgres, mysql")
		}
		if cfg.Database.Host == "" {
			errors = append(errors, "DB_HOST is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errors = append(errors, "DB_PORT must be between 1 and 65535")
		}
		if cfg.Database.Name == "" {
			errors = append(errors, "DB_NAME is required")
		}
		if cfg.Database.User == "" {
			errors = append(errors, "DB_USER is required")
		}
		if cfg.Database.Password == "" {
			errors = append(errors, "DB_PASSWORD is required")
		}
	}

	// Validate JWT configuration
	if cfg.JWT.UseRSAKeys {
		if cfg.JWT.PrivateKey == "" || cfg.JWT.PublicKey == "" {
			errors = append(errors, "JWT_PRIVATE_KEY and JWT_PUBLIC_KEY are required when JWT_USE_RSA_KEYS is set")
		}
	} else if len(cfg.JWT.SecretKey) < 32 {
		errors = append(errors, "JWT_SECRET_KEY must be at least 32 characters long")
	}
	if cfg.JWT.OperatorTTL <= 0 {
		errors = append(errors, "JWT_OPERATOR_TTL must be positive")
	}
	if cfg.JWT.Issuer == "" {
		errors = append(errors, "JWT_ISSUER is required")
	}
	if cfg.JWT.Audience == "" {
		errors = append(errors, "JWT_AUDIENCE is required")
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Server.RequestTimeout <= 0 {
		errors = append(errors, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Validate TLS configuration if enabled
	if cfg.Security.TLSEnabled {
		if cfg.Security.TLSCertFile == "" {
			errors = append(errors, "TLS_CERT_FILE is required when TLS is enabled")
		}
		if cfg.Security.TLSKeyFile == "" {
			errors = append(errors, "TLS_KEY_FILE is required when TLS is enabled")
		}
	}

	// Validate logging configuration
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}
	switch cfg.Logging.Output {
	case "stdout", "file", "both":
	default:
		errors = append(errors, "LOG_OUTPUT must be one of: stdout, file, both")
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" {
		errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled")
	}

	// Validate pricing configuration
	switch cfg.Pricing.Store {
	case "memory":
	case "persistent":
		if !cfg.Database.Enabled {
			errors = append(errors, "PRICING_STORE=persistent requires DB_ENABLED=true")
		}
	default:
		errors = append(errors, "PRICING_STORE must be one of: memory, persistent")
	}
	if cfg.Pricing.HistoryLimit <= 0 {
		errors = append(errors, "PRICING_HISTORY_LIMIT must be positive")
	}
	if cfg.Pricing.TrendThreshold <= 0 {
		errors = append(errors, "PRICING_TREND_THRESHOLD must be positive")
	}
	switch cfg.Pricing.FeedProvider {
	case "simulated":
	case "http":
		if cfg.Pricing.FeedURL == "" {
			errors = append(errors, "PRICING_FEED_URL is required for the http feed provider")
		}
	default:
		errors = append(errors, "PRICING_FEED_PROVIDER must be one of: simulated, http")
	}
	if cfg.Pricing.SchedulerEnabled && cfg.Pricing.RefreshInterval <= 0 {
		errors = append(errors, "PRICING_REFRESH_INTERVAL must be positive when the scheduler is enabled")
	}

	// Validate estimation configuration
	if cfg.Estimation.OverheadFraction < 0 || cfg.Estimation.OverheadFraction > 1 {
		errors = append(errors, "ESTIMATION_OVERHEAD_FRACTION must be between 0 and 1")
	}
	if cfg.Estimation.CirculationFraction < 0 || cfg.Estimation.CirculationFraction >= 0.5 {
		errors = append(errors, "ESTIMATION_CIRCULATION_FRACTION must be in [0, 0.5)")
	}
	if cfg.Estimation.MinRoomArea <= 0 {
		errors = append(errors, "ESTIMATION_MIN_ROOM_AREA must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
