package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"MONGO_URL", "DB_NAME", "MONGO_READ_ONLY", "MONGO_LOG_LEVEL", "MONGO_LOG_FORMAT",
	"MONGO_MCP_TRANSPORT", "MONGO_MCP_HTTP_HOST", "MONGO_MCP_HTTP_PORT",
	"MONGO_MCP_SHUTDOWN_TIMEOUT", "MONGO_CONNECT_TIMEOUT", "MONGO_MCP_ENV_FILE",
}

// clearEnv unsets every configuration key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	// point at a file that does not exist so a stray .env in the package dir is never read
	t.Setenv("MONGO_MCP_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			cfg: &Config{
				MongoURL: "mongodb://localhost:27017",
				DBName:   "shop",
			},
			wantErr: false,
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
			errMsg:  "configuration is required but was nil",
		},
		{
			name: "empty mongo url",
			cfg: &Config{
				DBName: "shop",
			},
			wantErr: true,
			errMsg:  "MONGO_URL is required but was empty",
		},
		{
			name: "empty database name",
			cfg: &Config{
				MongoURL: "mongodb://localhost:27017",
			},
			wantErr: true,
			errMsg:  "DB_NAME is required but was empty",
		},
		{
			name: "invalid transport mode",
			cfg: &Config{
				MongoURL:      "mongodb://localhost:27017",
				DBName:        "shop",
				TransportMode: "grpc",
			},
			wantErr: true,
			errMsg:  "invalid transport mode 'grpc'",
		},
		{
			name: "http transport without port",
			cfg: &Config{
				MongoURL:      "mongodb://localhost:27017",
				DBName:        "shop",
				TransportMode: TransportModeHTTP,
			},
			wantErr: true,
			errMsg:  "HTTP port is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error but got none")
					return
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %v", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}

	t.Run("defaults transport mode to stdio", func(t *testing.T) {
		cfg := &Config{MongoURL: "mongodb://localhost:27017", DBName: "shop"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, TransportModeStdio, cfg.TransportMode)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads required values and defaults from the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MONGO_URL", "mongodb://localhost:27017")
		t.Setenv("DB_NAME", "shop")

		cfg, err := LoadConfig(nil)
		require.NoError(t, err)

		assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
		assert.Equal(t, "shop", cfg.DBName)
		assert.False(t, cfg.ReadOnly)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, TransportModeStdio, cfg.TransportMode)
		assert.Equal(t, DefaultHTTPHost, cfg.HTTPHost)
		assert.Equal(t, DefaultHTTPPort, cfg.HTTPPort)
		assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
		assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	})

	t.Run("missing MONGO_URL is a missing config error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_NAME", "shop")

		cfg, err := LoadConfig(nil)
		assert.Nil(t, cfg)
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.Contains(t, err.Error(), "MONGO_URL")
	})

	t.Run("missing DB_NAME is a missing config error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MONGO_URL", "mongodb://localhost:27017")

		cfg, err := LoadConfig(nil)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrMissingConfig)
		assert.Contains(t, err.Error(), "DB_NAME")
	})

	t.Run("values come from the env file", func(t *testing.T) {
		clearEnv(t)
		path := writeEnvFile(t, "# local settings\n\nMONGO_URL = mongodb://db:27017/?w=majority\nDB_NAME=inventory\n")
		t.Setenv("MONGO_MCP_ENV_FILE", path)

		cfg, err := LoadConfig(nil)
		require.NoError(t, err)

		assert.Equal(t, "mongodb://db:27017/?w=majority", cfg.MongoURL)
		assert.Equal(t, "inventory", cfg.DBName)
		assert.Equal(t, "inventory", os.Getenv("DB_NAME"))
	})

	t.Run("environment wins over the env file", func(t *testing.T) {
		clearEnv(t)
		path := writeEnvFile(t, "MONGO_URL=mongodb://file:27017\nDB_NAME=from_file\n")
		t.Setenv("MONGO_MCP_ENV_FILE", path)
		t.Setenv("DB_NAME", "from_env")

		cfg, err := LoadConfig(nil)
		require.NoError(t, err)

		assert.Equal(t, "mongodb://file:27017", cfg.MongoURL)
		assert.Equal(t, "from_env", cfg.DBName)
	})

	t.Run("cli overrides win over everything", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MONGO_URL", "mongodb://env:27017")
		t.Setenv("DB_NAME", "env_db")
		t.Setenv("MONGO_READ_ONLY", "false")

		cfg, err := LoadConfig(&CLIOverrides{
			MongoURL:      "mongodb://cli:27017",
			DBName:        "cli_db",
			ReadOnly:      "true",
			TransportMode: "http",
		})
		require.NoError(t, err)

		assert.Equal(t, "mongodb://cli:27017", cfg.MongoURL)
		assert.Equal(t, "cli_db", cfg.DBName)
		assert.True(t, cfg.ReadOnly)
		assert.Equal(t, TransportModeHTTP, cfg.TransportMode)
	})

	t.Run("cli env file override", func(t *testing.T) {
		clearEnv(t)
		path := writeEnvFile(t, "MONGO_URL=mongodb://override:27017\nDB_NAME=override_db\n")

		cfg, err := LoadConfig(&CLIOverrides{EnvFile: path})
		require.NoError(t, err)
		assert.Equal(t, "override_db", cfg.DBName)
	})

	t.Run("invalid optional values fall back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MONGO_URL", "mongodb://localhost:27017")
		t.Setenv("DB_NAME", "shop")
		t.Setenv("MONGO_LOG_LEVEL", "verbose")
		t.Setenv("MONGO_LOG_FORMAT", "xml")
		t.Setenv("MONGO_READ_ONLY", "maybe")
		t.Setenv("MONGO_MCP_SHUTDOWN_TIMEOUT", "soon")

		cfg, err := LoadConfig(nil)
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.False(t, cfg.ReadOnly)
		assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	})

	t.Run("empty path is not an error", func(t *testing.T) {
		assert.NoError(t, LoadEnvFile(""))
	})

	t.Run("only the first equals sign splits key and value", func(t *testing.T) {
		t.Setenv("MONGO_MCP_TEST_QS", "")
		os.Unsetenv("MONGO_MCP_TEST_QS")
		path := writeEnvFile(t, "MONGO_MCP_TEST_QS=a=b&c=d\n")

		require.NoError(t, LoadEnvFile(path))
		assert.Equal(t, "a=b&c=d", os.Getenv("MONGO_MCP_TEST_QS"))
	})

	t.Run("inline comments and quotes", func(t *testing.T) {
		for _, key := range []string{"MONGO_MCP_TEST_INLINE", "MONGO_MCP_TEST_QUOTED", "MONGO_MCP_TEST_HASH"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
		path := writeEnvFile(t, "# leading comment\n"+
			"MONGO_MCP_TEST_INLINE=abc #tail\n"+
			"MONGO_MCP_TEST_QUOTED=\"abc #tail\"\n"+
			"MONGO_MCP_TEST_HASH=abc#tail\n")

		require.NoError(t, LoadEnvFile(path))
		assert.Equal(t, "abc", os.Getenv("MONGO_MCP_TEST_INLINE"))
		assert.Equal(t, "abc #tail", os.Getenv("MONGO_MCP_TEST_QUOTED"))
		assert.Equal(t, "abc#tail", os.Getenv("MONGO_MCP_TEST_HASH"))
	})
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-1s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("later", time.Minute))
}
