package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxClickAttempts int
	ClickTimeoutMs   int
	SettleDelayMs    int
	MaxScrollRounds  int
	ScrollSettleMs   int

	RoutesFile string
	APIAddr    string
	ChromeBin  string
}

// Load reads the .env file and returns a populated Config struct.
func Load(log zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "redbus"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "redbus123"),
		PostgresDB:       getEnv("POSTGRES_DB", "redbus"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxClickAttempts: getEnvInt("MAX_CLICK_ATTEMPTS", 3),
		ClickTimeoutMs:   getEnvInt("CLICK_TIMEOUT_MS", 10000),
		SettleDelayMs:    getEnvInt("SETTLE_DELAY_MS", 2000),
		MaxScrollRounds:  getEnvInt("MAX_SCROLL_ROUNDS", 40),
		ScrollSettleMs:   getEnvInt("SCROLL_SETTLE_MS", 5000),

		RoutesFile: getEnv("ROUTES_FILE", "./routes.json"),
		APIAddr:    getEnv("API_ADDR", ":8080"),
		ChromeBin:  getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// ClickTimeout returns the per-attempt readiness timeout for UI clicks.
func (c *Config) ClickTimeout() time.Duration {
	return time.Duration(c.ClickTimeoutMs) * time.Millisecond
}

// SettleDelay returns the pause between interaction retry attempts.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// ScrollSettle returns the wait for lazy content after each scroll.
func (c *Config) ScrollSettle() time.Duration {
	return time.Duration(c.ScrollSettleMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
