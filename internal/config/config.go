// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config provides configuration management for the Platewise
// inference gateway. It handles loading and parsing the YAML configuration
// file and provides structured access to server settings, backend
// credentials, routing steering rules, and store locations.
package config

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// BackendConfig holds credentials and endpoint settings for one generative
// backend.
type BackendConfig struct {
	// APIKey is the backend credential. An empty key makes the adapter
	// surface ErrMissingCredential instead of calling out.
	APIKey string `yaml:"api-key"`

	// BaseURL overrides the backend's default endpoint.
	BaseURL string `yaml:"base-url"`

	// Model overrides the backend's default model name.
	Model string `yaml:"model"`
}

// GeminiConfig configures the Gemini adapter, which serves both the
// long-context and mid-tier long-context slots with different models.
type GeminiConfig struct {
	APIKey     string `yaml:"api-key"`
	BaseURL    string `yaml:"base-url"`
	ProModel   string `yaml:"pro-model"`
	FlashModel string `yaml:"flash-model"`
}

// SteeringRule pins a backend for requests matching an expr condition
// evaluated against the routing context. Rules are optional; with none
// configured the selector's precedence chain is fully authoritative.
type SteeringRule struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition"`
	Backend   string `yaml:"backend"`
	Priority  int    `yaml:"priority"`
}

// Config represents the application's configuration, loaded from YAML.
type Config struct {
	// Host is the interface the API server binds to; empty binds all.
	Host string `yaml:"host"`
	// Port is the API server port.
	Port int `yaml:"port"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`

	// LoggingToFile switches logs from stdout to rotating files under LogDir.
	LoggingToFile bool   `yaml:"logging-to-file"`
	LogDir        string `yaml:"log-dir"`

	// APIKeys are inbound bearer keys accepted by the server. Entries may be
	// plaintext or bcrypt hashes; hashed entries are detected by prefix.
	APIKeys []string `yaml:"api-keys"`

	// RequestTimeoutSeconds bounds each backend adapter call.
	RequestTimeoutSeconds int `yaml:"request-timeout-seconds"`

	// DefaultCuisine seeds preferred_cuisine when the profile store has
	// nothing better to offer.
	DefaultCuisine string `yaml:"default-cuisine"`

	// CatalogFetchLimit bounds catalog reads per request.
	CatalogFetchLimit int `yaml:"catalog-fetch-limit"`

	// DatabaseDSN is the Postgres DSN for the catalog/profile store. Empty
	// runs the server against the built-in in-memory store.
	DatabaseDSN string `yaml:"database-dsn"`

	// InteractionLogPath is the SQLite file for the interaction log.
	InteractionLogPath string `yaml:"interaction-log"`

	// TokenEstimator selects the prompt token estimation method
	// ("simple" or "tiktoken").
	TokenEstimator string `yaml:"token-estimator"`

	// FallbackBackend names the low-cost adapter the dispatcher reroutes to.
	FallbackBackend string `yaml:"fallback-backend"`

	Claude BackendConfig `yaml:"claude"`
	OpenAI BackendConfig `yaml:"openai"`
	Gemini GeminiConfig  `yaml:"gemini"`
	Ollama BackendConfig `yaml:"ollama"`

	// Steering holds optional routing override rules.
	Steering []SteeringRule `yaml:"steering"`
}

// LoadConfig reads and parses the YAML configuration file at path, applying
// defaults for anything unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a configuration with all defaults applied and no backends
// configured.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8317
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 30
	}
	if c.DefaultCuisine == "" {
		c.DefaultCuisine = "italian"
	}
	if c.CatalogFetchLimit <= 0 {
		c.CatalogFetchLimit = 200
	}
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.InteractionLogPath == "" {
		c.InteractionLogPath = "interactions.db"
	}
	if c.TokenEstimator == "" {
		c.TokenEstimator = "simple"
	}
	if c.FallbackBackend == "" {
		c.FallbackBackend = "ollama"
	}
}

// HasAPIKey reports whether the given plaintext key is accepted. Bcrypt
// entries (prefix "$2") are verified with bcrypt; everything else is
// compared in constant time.
func (c *Config) HasAPIKey(key string) bool {
	if key == "" {
		return false
	}
	for _, entry := range c.APIKeys {
		if strings.HasPrefix(entry, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(entry), []byte(key)) == nil {
				return true
			}
			continue
		}
		if subtle.ConstantTimeCompare([]byte(entry), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// AuthRequired reports whether inbound requests must present an API key.
func (c *Config) AuthRequired() bool {
	return len(c.APIKeys) > 0
}
