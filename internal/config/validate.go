package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block
	// execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to users
	// but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where needed.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and identifies runs",
		})
	}

	switch c.Storage.Kind {
	case "csv":
		if strings.TrimSpace(c.Storage.Dir) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dir",
				Message:  "csv backend requires a data directory",
			})
		}
	case "sqlite", "postgres", "mysql":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  fmt.Sprintf("%s backend requires a DSN", c.Storage.Kind),
			})
		}
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage kind must be set",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (known: csv, sqlite, postgres, mysql)", c.Storage.Kind),
		})
	}

	switch c.Integrity.Policy {
	case "drop", "repair":
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "integrity.policy",
			Message:  "integrity policy must be set",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "integrity.policy",
			Message:  fmt.Sprintf("unknown integrity policy %q (known: drop, repair)", c.Integrity.Policy),
		})
	}

	switch c.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(c.Metrics.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.pushgateway_url",
				Message:  "no Pushgateway URL configured; falling back to flag/env/default",
			})
		}
	case "datadog":
		if strings.TrimSpace(c.Metrics.StatsdAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.statsd_addr",
				Message:  "datadog backend requires a DogStatsD address",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", c.Metrics.Backend),
		})
	}

	return issues
}
