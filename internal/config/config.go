// Package config manages the server configuration stored in server_config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name inside the data directory.
const FileName = "server_config.yaml"

// Server stores all server-wide configuration.
// Loaded from server_config.yaml, created with defaults if missing.
type Server struct {
	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `yaml:"rate_limits"`

	// ExportDir is where spreadsheet exports are written. A relative path is
	// resolved against the data directory.
	ExportDir string `yaml:"export_dir"`

	// History configures git versioning of the data directory.
	History History `yaml:"history"`
}

// RateLimits defines rate limiting configuration (requests per minute per
// client IP).
type RateLimits struct {
	// ReadPerMin limits GET requests. 0 means unlimited.
	ReadPerMin int `yaml:"read_per_min"`

	// WritePerMin limits POST, PUT and DELETE requests. 0 means unlimited.
	WritePerMin int `yaml:"write_per_min"`
}

// History configures commits of the users table.
type History struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.ReadPerMin < 0 {
		return errors.New("read_per_min must be non-negative")
	}
	if r.WritePerMin < 0 {
		return errors.New("write_per_min must be non-negative")
	}
	return nil
}

// Validate checks that the author is set when history is enabled.
func (h *History) Validate() error {
	if !h.Enabled {
		return nil
	}
	if h.AuthorName == "" {
		return errors.New("author_name is required")
	}
	if h.AuthorEmail == "" {
		return errors.New("author_email is required")
	}
	return nil
}

// Default returns the default configuration.
func Default() Server {
	return Server{
		MaxRequestBodyBytes: 1024 * 1024, // 1 MiB
		RateLimits: RateLimits{
			ReadPerMin:  6000,
			WritePerMin: 600,
		},
		ExportDir: "exports",
		History: History{
			AuthorName:  "userdb",
			AuthorEmail: "userdb@localhost",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Server) Validate() error {
	if c.MaxRequestBodyBytes < 0 {
		return errors.New("max_request_body_bytes must be non-negative")
	}
	if c.ExportDir == "" {
		return errors.New("export_dir is required")
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// ExportPath returns ExportDir resolved against dataDir.
func (c *Server) ExportPath(dataDir string) string {
	if filepath.IsAbs(c.ExportDir) {
		return c.ExportDir
	}
	return filepath.Join(dataDir, c.ExportDir)
}

// Load loads configuration from dataDir/server_config.yaml.
// Creates the file with defaults if it doesn't exist. Keys missing from the
// file keep their default value.
func Load(dataDir string) (*Server, error) {
	path := filepath.Join(dataDir, FileName)
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Save saves configuration to dataDir/server_config.yaml.
func (c *Server) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create %s: %w", dataDir, err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, FileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}
