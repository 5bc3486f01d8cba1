// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	MetricsPort string
	AppEnv      string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	LogLevel string
	LogFile  string

	BootstrapHRUsername string
	BootstrapHRPassword string
	BootstrapHREmail    string

	ConnectRetries int
}

// Load reads the configuration. It fails when a required variable is unset.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.DBHost = os.Getenv("DB_HOST")
	if cfg.DBHost == "" {
		missing = append(missing, "DB_HOST")
	}

	cfg.DBUser = os.Getenv("DB_USER")
	if cfg.DBUser == "" {
		missing = append(missing, "DB_USER")
	}

	cfg.DBName = os.Getenv("DB_NAME")
	if cfg.DBName == "" {
		missing = append(missing, "DB_NAME")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Port = getEnvString("PORT", "3000")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.AppEnv = getEnvString("APP_ENV", "development")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBPort = getEnvString("DB_PORT", "5432")
	cfg.DBSSLMode = getEnvString("DB_SSLMODE", "disable")
	cfg.RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	cfg.KafkaBroker = os.Getenv("KAFKA_BROKER")
	cfg.JWTTTL = getEnvDuration("JWT_TTL", 24*time.Hour)
	cfg.CORSOrigins = splitList(getEnvString("CORS_ORIGINS", "http://localhost:3000"))
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.BootstrapHRUsername = getEnvString("BOOTSTRAP_HR_USERNAME", "admin")
	cfg.BootstrapHRPassword = os.Getenv("BOOTSTRAP_HR_PASSWORD")
	cfg.BootstrapHREmail = getEnvString("BOOTSTRAP_HR_EMAIL", "admin@example.com")
	cfg.ConnectRetries = getEnvInt("CONNECT_RETRIES", 5)

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DatabaseURL is the postgres:// form used by the migrator.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// DSN is the key/value form used by the gorm driver.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
