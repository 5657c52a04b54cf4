package helper

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendFile     = "file"
	CacheBackendPostgres = "postgres"
)

// Configuration holds the runtime settings of depmatch.
type Configuration struct {
	LogLevel slog.Level

	// Annotation provider
	CoreNLPURL     string
	DependencyKey  string
	RequestTimeout time.Duration
	UseNER         bool

	// Annotation cache
	CacheBackend    string
	MemoryCacheSize int

	// Evaluation
	Workers      int
	StoreMatches bool

	// Only set if CacheBackend is postgres or StoreMatches is true
	Database *DatabaseConfiguration
}

// LoadEnv loads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

// NewConfiguration reads the DEPMATCH_* environment variables.
func NewConfiguration() (*Configuration, error) {
	LoadEnv()

	level, err := ParseLogLevel(GetEnvString("DEPMATCH_LOG_LEVEL", "info"))
	if err != nil {
		return nil, NewError("parse log level", err)
	}

	config := &Configuration{
		LogLevel:        level,
		CoreNLPURL:      GetEnvString("DEPMATCH_CORENLP_URL", "http://localhost:9000"),
		DependencyKey:   GetEnvString("DEPMATCH_DEPENDENCY_KEY", "collapsed-dependencies"),
		RequestTimeout:  time.Duration(GetEnvInt("DEPMATCH_CORENLP_TIMEOUT", 60)) * time.Second,
		UseNER:          GetEnvBool("DEPMATCH_NER", false),
		CacheBackend:    GetEnvString("DEPMATCH_CACHE", CacheBackendFile),
		MemoryCacheSize: GetEnvInt("DEPMATCH_CACHE_SIZE", 256),
		Workers:         GetEnvInt("DEPMATCH_WORKERS", 4),
		StoreMatches:    GetEnvBool("DEPMATCH_STORE_MATCHES", false),
	}

	if config.NeedsDatabase() {
		dbConfig, err := NewDatabaseConfiguration()
		if err != nil {
			return nil, err
		}
		config.Database = dbConfig
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// NeedsDatabase reports whether any configured component uses PostgreSQL.
func (c *Configuration) NeedsDatabase() bool {
	return c.CacheBackend == CacheBackendPostgres || c.StoreMatches
}

// Validate checks the configuration for inconsistent values.
func (c *Configuration) Validate() error {
	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendPostgres:
	default:
		return NewError("validate configuration", fmt.Errorf("unknown cache backend %q", c.CacheBackend))
	}
	if c.MemoryCacheSize < 0 {
		return NewError("validate configuration", fmt.Errorf("memory cache size must not be negative"))
	}
	if c.Workers < 1 {
		return NewError("validate configuration", fmt.Errorf("workers must be at least 1"))
	}
	if c.NeedsDatabase() && c.Database == nil {
		return NewError("validate configuration", fmt.Errorf("database configuration is missing"))
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to a slog.Level.
func ParseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}

func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}
