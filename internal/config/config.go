package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// User, Password, Name and Host come from the PROD_* or DEV_* variable
// family selected by NODE_ENV; the remaining knobs are shared.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	Dialect            string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Validate checks that the selected variable family is complete and that
// the dialect is one this service can actually speak.
func (c DatabaseConfig) Validate() error {
	if c.Host == "" || c.User == "" || c.Name == "" {
		return fmt.Errorf("invalid database config: host, username, and database are required")
	}
	if c.Dialect != "postgres" {
		return fmt.Errorf("unsupported database dialect %q: only postgres is supported", c.Dialect)
	}
	return nil
}

// RedisConfig holds Redis settings for sessions and caching.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	SessionTTLSec int
	CacheTTLSec   int
}

// MinIOConfig holds object storage settings for the artifact store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env      string
	AppHost  string
	Port     string
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
}

// IsProduction reports whether NODE_ENV selected the production family.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
//
// NODE_ENV chooses between the PROD_* and DEV_* database variable families:
// {PROD,DEV}_{USERNAME,PASSWORD,DATABASE,HOST,DIALECT}.
func Load() *AppConfig {
	env := strings.ToLower(getEnv("NODE_ENV", "development"))
	prefix := "DEV_"
	if env == "production" {
		prefix = "PROD_"
	}

	return &AppConfig{
		Env:     env,
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv(prefix+"HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv(prefix+"USERNAME", ""),
			Password:           getEnv(prefix+"PASSWORD", ""),
			Name:               getEnv(prefix+"DATABASE", ""),
			Dialect:            getEnv(prefix+"DIALECT", "postgres"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvInt("REDIS_DB", 0),
			SessionTTLSec: getEnvInt("SESSION_TTL_SEC", 86400),
			CacheTTLSec:   getEnvInt("CACHE_TTL_SEC", 60),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
