package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mongo-mcp/mcp/internal/logger"
)

type TransportMode string

const (
	TransportModeStdio TransportMode = "stdio"
	TransportModeHTTP  TransportMode = "http"

	DefaultEnvFile         = ".env"
	DefaultHTTPHost        = "127.0.0.1"
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultConnectTimeout  = 10 * time.Second
)

// ValidTransportModes defines the allowed transport mode values
var ValidTransportModes = []TransportMode{TransportModeStdio, TransportModeHTTP}

// ErrMissingConfig is returned when MONGO_URL or DB_NAME is absent after loading.
var ErrMissingConfig = errors.New("missing required configuration")

// MissingConfigGuidance is printed to stderr when ErrMissingConfig stops the process.
const MissingConfigGuidance = `Set the following in the environment or in a .env file:
  MONGO_URL=mongodb://localhost:27017
  DB_NAME=my_database
`

// Config holds the application configuration
type Config struct {
	MongoURL        string
	DBName          string
	ReadOnly        bool // If true, only read tools are registered
	LogLevel        string
	LogFormat       string
	TransportMode   TransportMode
	HTTPHost        string
	HTTPPort        string
	ShutdownTimeout time.Duration // How long in-flight tool calls may run after a termination signal
	ConnectTimeout  time.Duration
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is required but was nil")
	}

	if c.MongoURL == "" {
		return fmt.Errorf("%w: MONGO_URL is required but was empty", ErrMissingConfig)
	}

	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME is required but was empty", ErrMissingConfig)
	}

	// Default to stdio if not provided (tests construct Config directly)
	if c.TransportMode == "" {
		c.TransportMode = TransportModeStdio
	}

	if !slices.Contains(ValidTransportModes, c.TransportMode) {
		return fmt.Errorf("invalid transport mode '%s', must be one of %v", c.TransportMode, ValidTransportModes)
	}

	if c.TransportMode == TransportModeHTTP && c.HTTPPort == "" {
		return fmt.Errorf("HTTP port is required for HTTP transport mode (set MONGO_MCP_HTTP_PORT)")
	}

	return nil
}

// CLIOverrides holds optional configuration values from CLI flags
type CLIOverrides struct {
	MongoURL      string
	DBName        string
	ReadOnly      string
	TransportMode string
	EnvFile       string
}

// LoadConfig loads the env file, reads configuration from environment variables,
// applies CLI overrides, and validates.
// CLI flag values take precedence over environment variables, which take precedence over the env file.
func LoadConfig(cliOverrides *CLIOverrides) (*Config, error) {
	envFile := GetEnvWithDefault("MONGO_MCP_ENV_FILE", DefaultEnvFile)
	if cliOverrides != nil && cliOverrides.EnvFile != "" {
		envFile = cliOverrides.EnvFile
	}
	if err := LoadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read env file %q: %v\n", envFile, err)
	}

	logLevel := GetEnvWithDefault("MONGO_LOG_LEVEL", "info")
	logFormat := GetEnvWithDefault("MONGO_LOG_FORMAT", "text")

	if !slices.Contains(logger.ValidLogLevels, logLevel) {
		fmt.Fprintf(os.Stderr, "Warning: invalid MONGO_LOG_LEVEL '%s', using default 'info'. Valid values: %v\n", logLevel, logger.ValidLogLevels)
		logLevel = "info"
	}

	if !slices.Contains(logger.ValidLogFormats, logFormat) {
		fmt.Fprintf(os.Stderr, "Warning: invalid MONGO_LOG_FORMAT '%s', using default 'text'. Valid values: %v\n", logFormat, logger.ValidLogFormats)
		logFormat = "text"
	}

	cfg := &Config{
		MongoURL:        GetEnv("MONGO_URL"),
		DBName:          GetEnv("DB_NAME"),
		ReadOnly:        ParseBool(GetEnv("MONGO_READ_ONLY"), false),
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		TransportMode:   TransportMode(GetEnvWithDefault("MONGO_MCP_TRANSPORT", string(TransportModeStdio))),
		HTTPHost:        GetEnvWithDefault("MONGO_MCP_HTTP_HOST", DefaultHTTPHost),
		HTTPPort:        GetEnvWithDefault("MONGO_MCP_HTTP_PORT", DefaultHTTPPort),
		ShutdownTimeout: ParseDuration(GetEnv("MONGO_MCP_SHUTDOWN_TIMEOUT"), DefaultShutdownTimeout),
		ConnectTimeout:  ParseDuration(GetEnv("MONGO_CONNECT_TIMEOUT"), DefaultConnectTimeout),
	}

	if cliOverrides != nil {
		if cliOverrides.MongoURL != "" {
			cfg.MongoURL = cliOverrides.MongoURL
		}
		if cliOverrides.DBName != "" {
			cfg.DBName = cliOverrides.DBName
		}
		if cliOverrides.ReadOnly != "" {
			cfg.ReadOnly = ParseBool(cliOverrides.ReadOnly, false)
		}
		if cliOverrides.TransportMode != "" {
			cfg.TransportMode = TransportMode(cliOverrides.TransportMode)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFile copies KEY=value pairs from path into the process environment.
// Blank lines and lines starting with '#' are skipped and only the first '='
// separates key from value. Values follow dotenv quoting: surrounding quotes are
// removed and an unquoted value ends at " #", so a value containing " #" must be
// quoted. Variables already set in the environment keep their values.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// GetEnv returns the value of an environment variable or empty string if not set
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvWithDefault returns the value of an environment variable or a default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseBool parses a string to bool using strconv.ParseBool.
// Returns the default value if the string is empty or invalid.
// Logs a warning if the value is non-empty but invalid.
// Accepts: "1", "t", "T", "true", "True", "TRUE" for true
//
//	"0", "f", "F", "false", "False", "FALSE" for false
func ParseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: Invalid boolean value %q, using default: %v", value, defaultValue)
		return defaultValue
	}
	return parsed
}

// ParseDuration parses a Go duration string such as "5s" or "1m30s".
// Returns the default value if the string is empty, invalid or not positive.
func ParseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("Warning: Invalid duration value %q, using default: %v", value, defaultValue)
		return defaultValue
	}
	return parsed
}
