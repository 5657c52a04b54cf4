package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Database holds an open connection pool and the logger of its owner.
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// DatabaseConfiguration holds the connection parameters for PostgreSQL.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the connection parameters from the
// DEPMATCH_DB_* environment variables. A .env file is loaded if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	LoadEnv()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("DEPMATCH_DB_HOST"),
		Port:     os.Getenv("DEPMATCH_DB_PORT"),
		Database: os.Getenv("DEPMATCH_DB_DATABASE"),
		Username: os.Getenv("DEPMATCH_DB_USERNAME"),
		Password: os.Getenv("DEPMATCH_DB_PASSWORD"),
		Schema:   GetEnvString("DEPMATCH_DB_SCHEMA", "public"),
		SSLMode:  GetEnvString("DEPMATCH_DB_SSLMODE", "disable"),
	}

	if len(config.Host) == 0 || len(config.Port) == 0 || len(config.Database) == 0 || len(config.Username) == 0 || len(config.Password) == 0 {
		return nil, NewError("database configuration", fmt.Errorf("DEPMATCH_DB_HOST, DEPMATCH_DB_PORT, DEPMATCH_DB_DATABASE, DEPMATCH_DB_USERNAME and DEPMATCH_DB_PASSWORD must be set"))
	}

	return config, nil
}

// DataSourceName returns the lib/pq connection string.
func (c *DatabaseConfiguration) DataSourceName() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Schema,
	)
}

// NewDatabase opens and pings a connection pool. It panics if the database
// is unreachable since no handler can work without it.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}

	instance, err := sql.Open("postgres", config.DataSourceName())
	if err != nil {
		log.Panicf("error opening database %s: %v", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := instance.PingContext(ctx); err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	instance.SetMaxOpenConns(10)
	instance.SetMaxIdleConns(5)
	instance.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: instance,
	}
}

// NewTestDatabase opens a database with a logger writing to stdout at debug level.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	return NewDatabase("depmatch_test", config, NewLogger(os.Stdout, slog.LevelDebug))
}

// MustStartPostgresContainer starts a PostgreSQL container and returns its
// teardown function and mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("database"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("get mapped port", err)
	}

	return container.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs points the DEPMATCH_DB_* variables at a test container.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("DEPMATCH_DB_HOST", "localhost")
	t.Setenv("DEPMATCH_DB_PORT", port)
	t.Setenv("DEPMATCH_DB_DATABASE", "database")
	t.Setenv("DEPMATCH_DB_USERNAME", "user")
	t.Setenv("DEPMATCH_DB_PASSWORD", "password")
	t.Setenv("DEPMATCH_DB_SCHEMA", "public")
	t.Setenv("DEPMATCH_DB_SSLMODE", "disable")
}

// Close closes the connection pool.
func (d *Database) Close() error {
	if d == nil || d.Instance == nil {
		return nil
	}
	if err := d.Instance.Close(); err != nil {
		return NewError("close database", err)
	}
	d.Logger.Info("Closed database", slog.String("name", d.Name))
	return nil
}
