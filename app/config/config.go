// Package config loads runtime settings and builds the storage backend.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// ErrUnknownStorage is returned for a storage backend name that is not supported.
var ErrUnknownStorage = errors.New("unknown storage backend")

// Storage backend names.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageNeo4j  = "neo4j"
)

// Config holds application configuration.
type Config struct {
	Addr          string
	Storage       string
	RedisAddr     string
	SQLitePath    string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	LogLevel      string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Addr:          "0.0.0.0:8080",
		Storage:       StorageMemory,
		RedisAddr:     "localhost:6379",
		SQLitePath:    "tasks.db",
		Neo4jURI:      "neo4j://localhost:7687",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
		LogLevel:      "info",
	}
}

// Load reads an optional .env file, then environment variables, then args.
// Later sources win.
func Load(args []string) (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	fromEnv(&cfg, os.LookupEnv)

	flagSet := pflag.NewFlagSet("task-tracker", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flagSet.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: memory, redis, sqlite or neo4j")
	flagSet.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address")
	flagSet.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file")
	flagSet.StringVar(&cfg.Neo4jURI, "neo4j-uri", cfg.Neo4jURI, "Neo4j connection URI")
	flagSet.StringVar(&cfg.Neo4jUser, "neo4j-user", cfg.Neo4jUser, "Neo4j user")
	flagSet.StringVar(&cfg.Neo4jPassword, "neo4j-password", cfg.Neo4jPassword, "Neo4j password")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg.Storage = strings.ToLower(cfg.Storage)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromEnv(cfg *Config, lookup func(string) (string, bool)) {
	for name, dst := range map[string]*string{
		"TASKS_ADDR":           &cfg.Addr,
		"TASKS_STORAGE":        &cfg.Storage,
		"TASKS_REDIS_ADDR":     &cfg.RedisAddr,
		"TASKS_SQLITE_PATH":    &cfg.SQLitePath,
		"TASKS_NEO4J_URI":      &cfg.Neo4jURI,
		"TASKS_NEO4J_USER":     &cfg.Neo4jUser,
		"TASKS_NEO4J_PASSWORD": &cfg.Neo4jPassword,
		"TASKS_LOG_LEVEL":      &cfg.LogLevel,
	} {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
}

// Validate checks the storage backend and log level.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis, StorageSQLite, StorageNeo4j:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
