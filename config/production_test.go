package config

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *ProductionConfig {
	return &ProductionConfig{
		Database: DatabaseConfig{Enabled: false},
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    1,
			WriteTimeout:   1,
			RequestTimeout: 1,
		},
		JWT: JWTConfig{
			SecretKey:   "0123456789abcdef0123456789abcdef",
			OperatorTTL: 1,
			Issuer:      "constructai",
			Audience:    "constructai-pricing",
		},
		Logging: LoggingConfig{Level: "info", Output: "stdout"},
		Pricing: PricingConfig{
			Store:          "memory",
			HistoryLimit:   30,
			TrendThreshold: 2,
			FeedProvider:   "simulated",
		},
		Estimation: EstimationConfig{
			OverheadFraction:    0.1,
			CirculationFraction: 0.1,
			MinRoomArea:         40,
		},
	}
}

func TestValidateProductionConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProductionConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*ProductionConfig) {}},
		{
			name:    "short secret",
			mutate:  func(c *ProductionConfig) { c.JWT.SecretKey = "short" },
			wantErr: "JWT_SECRET_KEY",
		},
		{
			name:    "persistent store without database",
			mutate:  func(c *ProductionConfig) { c.Pricing.Store = "persistent" },
			wantErr: "PRICING_STORE=persistent requires DB_ENABLED=true",
		},
		{
			name:    "unknown store",
			mutate:  func(c *ProductionConfig) { c.Pricing.Store = "s3" },
			wantErr: "PRICING_STORE must be one of",
		},
		{
			name:    "http feed without url",
			mutate:  func(c *ProductionConfig) { c.Pricing.FeedProvider = "http" },
			wantErr: "PRICING_FEED_URL",
		},
		{
			name: "mysql driver accepted",
			mutate: func(c *ProductionConfig) {
				c.Database = DatabaseConfig{Enabled: true, Driver: "mysql", Host: "db", Port: 3306, Name: "c", User: "u", Password: "p"}
			},
		},
		{
			name: "unknown driver",
			mutate: func(c *ProductionConfig) {
				c.Database = DatabaseConfig{Enabled: true, Driver: "sqlite", Host: "db", Port: 1, Name: "c", User: "u", Password: "p"}
			},
			wantErr: "DB_DRIVER",
		},
		{
			name:    "circulation too large",
			mutate:  func(c *ProductionConfig) { c.Estimation.CirculationFraction = 0.5 },
			wantErr: "ESTIMATION_CIRCULATION_FRACTION",
		},
		{
			name:    "bad log level",
			mutate:  func(c *ProductionConfig) { c.Logging.Level = "trace" },
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateProductionConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.Issuer = ""
	cfg.Server.Port = 0
	err := ValidateProductionConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ISSUER is required; ")
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC", pg.DSN())

	my := DatabaseConfig{Driver: "mysql", Host: "h", Port: 3306, User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=True&loc=UTC", my.DSN())
}

func TestLoadProductionConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("PRICING_STORE", "memory")
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("PRICING_TREND_THRESHOLD", "3.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)
	assert.Equal(t, 3.5, cfg.Pricing.TrendThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 0.10, cfg.Estimation.OverheadFraction)
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := NewLogger(LoggingConfig{Level: "debug", Output: "file", FilePath: path, MaxSize: 1})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.Info("hello")
	assert.FileExists(t, path)

	_, _, err = NewLogger(LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
