// Package config manages the server configuration stored in
// server_config.json.
package config

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/monitorbizz/monitorbizz/internal/catalog"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/kv"
)

// FileName is the configuration file name inside the data directory.
const FileName = "server_config.json"

// ServerConfig stores all server-wide configuration.
// Loaded from server_config.json, created with defaults if missing.
type ServerConfig struct {
	// JWTSecret is the secret used to sign JWT tokens.
	// Auto-generated if empty on first load.
	JWTSecret []byte `json:"jwt_secret"`

	// Storage selects the key-value backend.
	Storage Storage `json:"storage"`

	// Demo is the built-in demo company whose collections are seeded.
	Demo Demo `json:"demo"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `json:"rate_limits"`

	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	MaxRequestBodyBytes int64 `json:"max_request_body_bytes"`
}

// Storage configures the key-value backend.
type Storage struct {
	// Backend is one of "memory", "dir" or "bolt".
	Backend string `json:"backend"`

	// Path is relative to the data directory unless absolute. Unused by the
	// memory backend.
	Path string `json:"path"`

	// MaxBytes is the capacity ceiling of the whole namespace. 0 means
	// unlimited.
	MaxBytes int64 `json:"max_bytes"`
}

// Validate checks the backend name and quota.
func (s *Storage) Validate() error {
	switch s.Backend {
	case kv.BackendMemory:
	case kv.BackendDir, kv.BackendBolt:
		if s.Path == "" {
			return fmt.Errorf("path is required for backend %q", s.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.MaxBytes < 0 {
		return errors.New("max_bytes must be non-negative")
	}
	return nil
}

// Resolve returns Path joined to dataDir when relative.
func (s *Storage) Resolve(dataDir string) string {
	if s.Path == "" || filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(dataDir, s.Path)
}

// Demo configures the demo company. An empty TenantID disables it along with
// seeding.
type Demo struct {
	TenantID string   `json:"tenant_id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Services []string `json:"services"`
}

// Validate checks that an enabled demo company is complete.
func (d *Demo) Validate() error {
	if d.TenantID == "" {
		return nil
	}
	if d.Email == "" {
		return errors.New("email is required")
	}
	if d.Password == "" {
		return errors.New("password is required")
	}
	if _, err := catalog.Normalize(d.Services); err != nil {
		return err
	}
	return nil
}

// Identity returns the registry form of the demo company.
func (d *Demo) Identity() identity.Demo {
	return identity.Demo{ID: d.TenantID, Name: d.Name, Email: d.Email, Password: d.Password, Services: d.Services}
}

// DefaultDemo returns the ACME Manufacturing demo company.
func DefaultDemo() Demo {
	return Demo{
		TenantID: "1",
		Name:     "ACME Manufacturing",
		Email:    "admin@acme.com",
		Password: "demo1234",
		Services: []string{
			"dashboard", "machines", "work-orders",
			"inventory", "production-planning", "quality-control",
			"purchase-orders", "vendors", "shipments",
			"customers", "sales-pipeline",
			"invoicing", "user-roles", "settings",
		},
	}
}

// RateLimits defines rate limiting configuration (requests per minute).
type RateLimits struct {
	// AuthRatePerMin limits signup and login attempts per IP.
	// 0 means unlimited.
	AuthRatePerMin int `json:"auth_rate_per_min"`

	// WriteRatePerMin limits mutations per tenant.
	// 0 means unlimited.
	WriteRatePerMin int `json:"write_rate_per_min"`

	// ReadRatePerMin limits reads per tenant.
	// 0 means unlimited.
	ReadRatePerMin int `json:"read_rate_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.AuthRatePerMin < 0 {
		return errors.New("auth_rate_per_min must be non-negative")
	}
	if r.WriteRatePerMin < 0 {
		return errors.New("write_rate_per_min must be non-negative")
	}
	if r.ReadRatePerMin < 0 {
		return errors.New("read_rate_per_min must be non-negative")
	}
	return nil
}

// DefaultRateLimits returns the default rate limits.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		AuthRatePerMin:  10,
		WriteRatePerMin: 120,
		ReadRatePerMin:  6000,
	}
}

// Default returns the configuration written on first start, without JWT
// secret.
func Default() ServerConfig {
	return ServerConfig{
		Storage:             Storage{Backend: kv.BackendDir, Path: "kv", MaxBytes: 5 * 1024 * 1024},
		Demo:                DefaultDemo(),
		RateLimits:          DefaultRateLimits(),
		MaxRequestBodyBytes: 1024 * 1024,
	}
}

// Validate checks that the configuration is valid.
func (c *ServerConfig) Validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("jwt_secret is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 bytes")
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Demo.Validate(); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	if c.MaxRequestBodyBytes <= 0 {
		return errors.New("max_request_body_bytes must be positive")
	}
	return nil
}

// LoadServerConfig loads configuration from dataDir/server_config.json.
// Creates the file with defaults if it doesn't exist.
// Auto-generates JWTSecret if empty.
func LoadServerConfig(dataDir string) (*ServerConfig, error) {
	path := filepath.Join(dataDir, FileName)

	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	modified := false
	if len(cfg.JWTSecret) == 0 {
		cfg.JWTSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.JWTSecret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		modified = true
	}

	if modified || errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Save saves configuration to dataDir/server_config.json.
func (c *ServerConfig) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dataDir, FileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}
