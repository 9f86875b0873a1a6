package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process configuration of the pvcalc binary.
type Config struct {
	Server struct {
		Port    int
		GinMode string
	}

	Log struct {
		Level  string
		Format string
	}

	// TablesPath is an optional TOML overlay for the engine tables.
	// Empty means the built-in tables.
	TablesPath string
}

// Load reads .env from the working directory when present, then the
// environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; variables already set in the environment win over the file.
func LoadFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{}

	port, err := strconv.Atoi(getEnv("PVCALC_PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PVCALC_PORT %q", os.Getenv("PVCALC_PORT"))
	}
	cfg.Server.Port = port
	cfg.Server.GinMode = getEnv("PVCALC_GIN_MODE", "release")

	cfg.Log.Level = getEnv("PVCALC_LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("PVCALC_LOG_FORMAT", "console")

	cfg.TablesPath = getEnv("PVCALC_TABLES", "")

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
