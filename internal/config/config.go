// Package config defines the canonical, JSON-serializable configuration
// model for the cleaning service. It is intentionally small, explicit, and
// dependency-free so that configurations can be loaded from disk and passed
// through the program without additional glue code; decoding is performed
// by the standard library.
//
// Example (trimmed):
//
//	{
//	  "job":       "olist_cleanup",
//	  "storage":   { "kind": "csv", "dir": "data" },
//	  "integrity": { "policy": "drop" },
//	  "http":      { "addr": ":8080" },
//	  "metrics":   { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level object decoded from a config file.
type Config struct {
	// Job names the run for metrics labeling and log correlation.
	Job string `json:"job"`

	// Storage selects and configures the persistence backend.
	Storage Storage `json:"storage"`

	// Integrity configures the referential integrity resolver.
	Integrity Integrity `json:"integrity"`

	// HTTP configures the ingress server (serve mode only).
	HTTP HTTP `json:"http"`

	// Metrics configures the optional metrics backend.
	Metrics Metrics `json:"metrics"`
}

// Storage selects the persistence backend used for cleaned tables.
type Storage struct {
	// Kind selects the backend: "csv", "sqlite", "postgres", "mysql".
	Kind string `json:"kind"`
	// DSN is the connection string for database backends.
	DSN string `json:"dsn"`
	// Dir is the data directory for the csv backend.
	Dir string `json:"dir"`
}

// Integrity configures orphan handling for order items.
type Integrity struct {
	// Policy is "drop" (default) or "repair".
	Policy string `json:"policy"`
}

// HTTP configures the ingress server.
type HTTP struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
}

// Metrics configures the metrics backend.
type Metrics struct {
	// Backend is "pushgateway", "datadog", or "none".
	Backend string `json:"backend"`
	// PushgatewayURL is the Pushgateway base URL.
	PushgatewayURL string `json:"pushgateway_url"`
	// StatsdAddr is the DogStatsD address for the datadog backend.
	StatsdAddr string `json:"statsd_addr"`
}

// Defaults applied by Load when fields are empty.
const (
	DefaultJob         = "cleanse"
	DefaultStorageKind = "csv"
	DefaultStorageDir  = "data"
	DefaultPolicy      = "drop"
	DefaultHTTPAddr    = ":8080"
)

// Load reads and decodes the config file at path, then applies defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	var c Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	c.ApplyDefaults()
	return c, nil
}

// ApplyDefaults fills empty fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Job == "" {
		c.Job = DefaultJob
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = DefaultStorageKind
	}
	if c.Storage.Kind == DefaultStorageKind && c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}
	if c.Integrity.Policy == "" {
		c.Integrity.Policy = DefaultPolicy
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
}
