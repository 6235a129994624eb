// Package config manages server configuration stored in server_config.yaml.
//
// The file lives next to the database, is operator-edited, and is created
// with defaults (and a fresh admin token secret) on first run.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mavendb/mavend/internal/server/ratelimit"
	"gopkg.in/yaml.v3"
)

// fileName is the config file name within the data directory.
const fileName = "server_config.yaml"

// ServerConfig stores all server-wide configuration.
type ServerConfig struct {
	// AdminTokenSecret signs admin bearer tokens (hex-encoded).
	// Auto-generated if empty on first load.
	AdminTokenSecret string `yaml:"admin_token_secret"`

	// RateLimits defines per-minute request rates. Zero values use defaults.
	RateLimits ratelimit.Limits `yaml:"rate_limits"`
}

// Load reads server_config.yaml from dataDir, creating it with defaults
// if missing.
func Load(dataDir string) (*ServerConfig, error) {
	path := filepath.Join(dataDir, fileName)

	var cfg ServerConfig
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir flag, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
		}
		// File doesn't exist, will create with defaults.
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
		}
	}

	// Auto-generate the admin token secret if missing.
	modified := false
	if cfg.AdminTokenSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate admin token secret: %w", err)
		}
		cfg.AdminTokenSecret = hex.EncodeToString(secret)
		modified = true
	}

	if modified || errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return &cfg, nil
}

// Save writes the configuration to dataDir. The file holds a secret so it
// is not world-readable.
func (c *ServerConfig) Save(dataDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dataDir, fileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", fileName, err)
	}
	return nil
}

// Validate checks the loaded configuration.
func (c *ServerConfig) Validate() error {
	if _, err := c.Secret(); err != nil {
		return err
	}
	if c.RateLimits.ReadPerMin < 0 || c.RateLimits.UpgradePerMin < 0 || c.RateLimits.AdminPerMin < 0 {
		return errors.New("rate limits must not be negative")
	}
	return nil
}

// Secret decodes the admin token secret.
func (c *ServerConfig) Secret() ([]byte, error) {
	secret, err := hex.DecodeString(c.AdminTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("admin_token_secret is not valid hex: %w", err)
	}
	if len(secret) < 16 {
		return nil, errors.New("admin_token_secret must be at least 16 bytes")
	}
	return secret, nil
}
