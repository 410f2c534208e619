package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleanse.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"job": "olist_cleanup",
		"storage": {"kind": "sqlite", "dsn": "file:clean.db"},
		"integrity": {"policy": "repair"}
	}`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Job != "olist_cleanup" || c.Storage.Kind != "sqlite" || c.Integrity.Policy != "repair" {
		t.Errorf("config = %+v", c)
	}
	// Unset fields take defaults.
	if c.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("http addr = %q, want default", c.HTTP.Addr)
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Job != DefaultJob || c.Storage.Kind != DefaultStorageKind ||
		c.Storage.Dir != DefaultStorageDir || c.Integrity.Policy != DefaultPolicy {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	if _, err := Load(writeConfig(t, `{"jobb": "typo"}`)); err == nil {
		t.Fatal("unknown field accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Job:       "j",
		Storage:   Storage{Kind: "csv", Dir: "data"},
		Integrity: Integrity{Policy: "drop"},
	}
	if issues := Validate(valid); len(issues) != 0 {
		t.Errorf("valid config produced issues: %v", issues)
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"empty job", func(c *Config) { c.Job = "" }, "job"},
		{"unknown kind", func(c *Config) { c.Storage.Kind = "oracle" }, "storage.kind"},
		{"csv without dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir"},
		{"db without dsn", func(c *Config) { c.Storage = Storage{Kind: "postgres"} }, "storage.dsn"},
		{"unknown policy", func(c *Config) { c.Integrity.Policy = "purge" }, "integrity.policy"},
		{"datadog without addr", func(c *Config) { c.Metrics = Metrics{Backend: "datadog"} }, "metrics.statsd_addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			issues := Validate(c)
			found := false
			for _, is := range issues {
				if is.Path == tt.wantPath && is.Severity == SeverityError {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at %s, issues: %v", tt.wantPath, issues)
			}
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	c := Config{
		Job:       "j",
		Storage:   Storage{Kind: "csv", Dir: "data"},
		Integrity: Integrity{Policy: "drop"},
		Metrics:   Metrics{Backend: "statsite"},
	}
	issues := Validate(c)
	if len(issues) != 1 || issues[0].Severity != SeverityWarning {
		t.Errorf("issues = %v, want one warning", issues)
	}
}

func TestIssueError(t *testing.T) {
	is := Issue{Severity: SeverityError, Path: "storage.kind", Message: "must be set"}
	want := "error at storage.kind: must be set"
	if got := is.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
