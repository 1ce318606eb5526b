package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/evaluator"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// DatabaseConfig holds the Postgres connection settings for the batch
// audit trail. Disabled by default so the engine runs standalone.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds the stream-notification settings. Disabled by default.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Stream   string
}

// Config is the full CDS engine configuration, loaded once at startup.
type Config struct {
	Server struct {
		Port         int
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
	Store struct {
		Dir string
	}
	CDS struct {
		Thresholds evaluator.Thresholds
		TempAdjust evaluator.TempAdjustConfig
		MaxActions int
	}
	Redis    RedisConfig
	Database DatabaseConfig
	Feed     struct {
		Patients int
		Interval time.Duration
		Seed     int64
	}
	Client struct {
		BaseURL      string
		PollInterval time.Duration
		Timeout      time.Duration
	}
}

// Load reads the configuration from the environment, falling back to code
// defaults. Threshold pairs are validated here so an inverted cutoff is a
// startup failure, never a per-request surprise.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Server.Port = parseInt(getEnv("CDS_SERVER_PORT", "8000"), 8000)
	cfg.Server.ReadTimeout = parseDuration(getEnv("CDS_SERVER_READ_TIMEOUT", "10s"), 10*time.Second)
	cfg.Server.WriteTimeout = parseDuration(getEnv("CDS_SERVER_WRITE_TIMEOUT", "10s"), 10*time.Second)

	cfg.Log.Level = getEnv("CDS_LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("CDS_LOG_FORMAT", "json")

	cfg.Store.Dir = getEnv("CDS_STORE_DIR", "outputs/cds")

	cfg.CDS.Thresholds = loadThresholds()
	cfg.CDS.TempAdjust.Max = parseFloat(getEnv("CDS_TEMP_ADJUST_MAX", "1.0"), 1.0)
	cfg.CDS.TempAdjust.Medium = parseFloat(getEnv("CDS_TEMP_ADJUST_MEDIUM", "0.5"), 0.5)
	cfg.CDS.MaxActions = parseInt(getEnv("CDS_MAX_ACTIONS", "8"), 8)

	cfg.Redis.Enabled = getEnv("CDS_REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("CDS_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("CDS_REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("CDS_REDIS_DB", "0"), 0)
	cfg.Redis.Stream = getEnv("CDS_REDIS_STREAM", "cds:batches")

	cfg.Database.Enabled = getEnv("CDS_DB_ENABLED", "false") == "true"
	cfg.Database.Host = getEnv("CDS_DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("CDS_DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("CDS_DB_USER", "postgres")
	cfg.Database.Password = getEnv("CDS_DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("CDS_DB_NAME", "cds")
	cfg.Database.SSLMode = getEnv("CDS_DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("CDS_DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("CDS_DB_MAX_IDLE", "5"), 5)

	cfg.Feed.Patients = parseInt(getEnv("CDS_FEED_PATIENTS", "5"), 5)
	cfg.Feed.Interval = parseDuration(getEnv("CDS_FEED_INTERVAL", "10s"), 10*time.Second)
	cfg.Feed.Seed = int64(parseInt(getEnv("CDS_FEED_SEED", "0"), 0))

	cfg.Client.BaseURL = getEnv("CDS_CLIENT_BASE_URL", "http://localhost:8000")
	cfg.Client.PollInterval = parseDuration(getEnv("CDS_CLIENT_POLL_INTERVAL", "10s"), 10*time.Second)
	cfg.Client.Timeout = parseDuration(getEnv("CDS_CLIENT_TIMEOUT", "5s"), 5*time.Second)

	if err := cfg.CDS.Thresholds.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadThresholds starts from the standing defaults and applies
// CDS_THRESHOLD_<CATEGORY>_{MEDIUM,HIGH} overrides.
func loadThresholds() evaluator.Thresholds {
	ths := evaluator.DefaultThresholds()
	for _, c := range models.Categories() {
		th := ths[c]
		prefix := "CDS_THRESHOLD_" + strings.ToUpper(string(c))
		th.Medium = parseFloat(getEnv(prefix+"_MEDIUM", ""), th.Medium)
		th.High = parseFloat(getEnv(prefix+"_HIGH", ""), th.High)
		ths[c] = th
	}
	return ths
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
