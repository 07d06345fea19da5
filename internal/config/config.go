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
	// HTTP server
	Port string

	// Backend selection: local | remote | sqlite
	DataBackend string

	// Local (on-device) store
	DataDir string

	// SQLite record store
	SQLiteDBPath string

	// Remote record-store API
	RemoteBaseURL string
	RemoteTimeout time.Duration

	// Empty-list handling for persisted settings: "" (per-backend default),
	// preserve, or defaults.
	EmptyListPolicy string

	// AMQP (optional transaction-event mirroring)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Mirror worker target directory
	MirrorDir string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		DataBackend: getEnv("DATA_BACKEND", "local"),
		DataDir:     getEnv("DATA_DIR", "./data"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pennywise.db"),

		RemoteBaseURL: getEnv("REMOTE_BASE_URL", ""),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),

		EmptyListPolicy: getEnv("SETTINGS_EMPTY_LISTS", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pennywise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		MirrorDir: getEnv("MIRROR_DIR", "./data/mirror"),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "local", "remote", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [local remote sqlite]", c.DataBackend))
	}

	if c.DataBackend == "local" && c.DataDir == "" {
		errs = append(errs, "data directory cannot be empty when using the local backend")
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using the sqlite backend")
	}

	if c.DataBackend == "remote" {
		if c.RemoteBaseURL == "" {
			errs = append(errs, "REMOTE_BASE_URL is required when using the remote backend")
		} else if u, err := url.Parse(c.RemoteBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid remote base URL '%s': must be http(s)", c.RemoteBaseURL))
		}
		if c.RemoteTimeout < time.Second {
			errs = append(errs, fmt.Sprintf("invalid remote timeout %v: must be at least 1 second", c.RemoteTimeout))
		}
	}

	switch c.EmptyListPolicy {
	case "", "preserve", "defaults":
	default:
		errs = append(errs, fmt.Sprintf("invalid empty-list policy '%s': must be 'preserve' or 'defaults'", c.EmptyListPolicy))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
