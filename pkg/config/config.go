package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Engine    EngineConfig
	Backends  BackendsConfig
}

type ServerConfig struct {
	Host string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Type string // "sqlite" or "postgres"
	DSN  string
	Path string // For SQLite: file path
}

// RateLimitConfig controls per-identity admission.
type RateLimitConfig struct {
	Store            string // "memory" or "redis"
	RedisAddr        string
	RequestsPerMin   int
	RetentionMinutes int
}

// EngineConfig holds the question-generation tunables.
type EngineConfig struct {
	SingleAttempts   int           // attempts per single-question request
	BatchSize        int           // questions per batch
	BatchAttempts    int           // attempts per batch slot
	LookbackDays     int           // duplicate-check horizon
	BackendTimeout   time.Duration // per completion call
	Denylist         []string
	PoolEnabled      bool
	PoolMinDepth     int
	PoolInterval     time.Duration
	PoolEntryTTLDays int
}

// BackendsConfig holds completion-service credentials and models.
type BackendsConfig struct {
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dbType := getEnv("DB_TYPE", "sqlite") // Default to SQLite for development
	dsn, dbPath := buildDSN(dbType)

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Type: dbType,
			DSN:  dsn,
			Path: dbPath,
		},
		RateLimit: RateLimitConfig{
			Store:            getEnv("RATELIMIT_STORE", "memory"),
			RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
			RequestsPerMin:   getEnvInt("RATELIMIT_PER_MINUTE", 3),
			RetentionMinutes: getEnvInt("RATELIMIT_RETENTION_MINUTES", 5),
		},
		Engine: EngineConfig{
			SingleAttempts:   getEnvInt("GEN_SINGLE_ATTEMPTS", 3),
			BatchSize:        getEnvInt("GEN_BATCH_SIZE", 5),
			BatchAttempts:    getEnvInt("GEN_BATCH_ATTEMPTS", 10),
			LookbackDays:     getEnvInt("DEDUP_LOOKBACK_DAYS", 150),
			BackendTimeout:   getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
			Denylist:         getEnvList("CONTENT_DENYLIST", ""),
			PoolEnabled:      getEnvBool("QUESTION_POOL_ENABLED", false),
			PoolMinDepth:     getEnvInt("QUESTION_POOL_MIN_DEPTH", 10),
			PoolInterval:     getEnvDuration("QUESTION_POOL_INTERVAL", 15*time.Minute),
			PoolEntryTTLDays: getEnvInt("QUESTION_POOL_TTL_DAYS", 30),
		},
		Backends: BackendsConfig{
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5"),
		},
	}, nil
}

func buildDSN(dbType string) (string, string) {
	if dbType == "postgres" {
		// PostgreSQL configuration
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := getEnv("DB_PASSWORD", "postgres")
		dbName := getEnv("DB_NAME", "adaptive_tutor")
		sslMode := getEnv("DB_SSLMODE", "disable")

		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbHost, dbPort, dbUser, dbPassword, dbName, sslMode,
		)
		return dsn, ""
	}

	// SQLite configuration (default for development)
	dbPath := getEnv("SQLITE_PATH", "./data/adaptive_tutor.db")
	dsn := dbPath + "?mode=rwc&cache=shared&timeout=5000"
	return dsn, dbPath
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
