package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	DBConnStr   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JudgeAPIURL  string
	JudgeAPIKey  string
	JudgeAPIHost string
	// zero leaves the judge call bounded only by the request context
	JudgeTimeout time.Duration

	RequireAuth        bool
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// Load reads the process environment (and a .env file when present) once at boot.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8080"),
		JWTKey:             []byte(getEnv("JWT_SECRET", "")),
		JWTExp:             time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		StoreDriver:        getEnv("STORE_DRIVER", StoreDriverPostgres),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "user"),
		DBPassword:         getEnv("DB_PASSWORD", "password"),
		DBName:             getEnv("DB_NAME", "codeclash"),
		DBSslMode:          getEnv("DB_SSLMODE", "disable"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		JudgeAPIURL:        getEnv("JUDGE0_API_URL", "https://judge0-ce.p.rapidapi.com"),
		JudgeAPIKey:        getEnv("RAPIDAPI_KEY", ""),
		JudgeAPIHost:       getEnv("RAPIDAPI_HOST", "judge0-ce.p.rapidapi.com"),
		JudgeTimeout:       time.Duration(getEnvAsInt("JUDGE_TIMEOUT_SECONDS", 0)) * time.Second,
		RequireAuth:        getEnvAsBool("REQUIRE_AUTH", false),
		CORSAllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	cfg.DBConnStr = getEnv("DATABASE_URL", "")
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.APIPort); err != nil {
		errs = append(errs, fmt.Errorf("API_PORT must be numeric, got %q", c.APIPort))
	}
	if len(c.JWTKey) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExp <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS must be positive"))
	}
	if u, err := url.Parse(c.JudgeAPIURL); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("JUDGE0_API_URL must be an absolute url, got %q", c.JudgeAPIURL))
	}
	if c.JudgeTimeout < 0 {
		errs = append(errs, errors.New("JUDGE_TIMEOUT_SECONDS must not be negative"))
	}
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
