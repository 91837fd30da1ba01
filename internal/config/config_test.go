package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("creates defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if *cfg != Default() {
			t.Errorf("got %+v, want defaults", cfg)
		}
		data, err := os.ReadFile(filepath.Join(dir, FileName))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "write_per_min: 600") {
			t.Errorf("unexpected file:\n%s", data)
		}
		// Loading again reads the file back.
		again, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if *again != *cfg {
			t.Errorf("got %+v, want %+v", again, cfg)
		}
	})
	t.Run("partial file", func(t *testing.T) {
		dir := t.TempDir()
		content := "rate_limits:\n  read_per_min: 10\nhistory:\n  enabled: true\n"
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.RateLimits.ReadPerMin != 10 {
			t.Errorf("ReadPerMin = %d", cfg.RateLimits.ReadPerMin)
		}
		if cfg.RateLimits.WritePerMin != 600 {
			t.Errorf("WritePerMin = %d, want default", cfg.RateLimits.WritePerMin)
		}
		if !cfg.History.Enabled || cfg.History.AuthorName != "userdb" {
			t.Errorf("History = %+v", cfg.History)
		}
	})
	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			want    string
		}{
			{"syntax", "rate_limits: [", "failed to parse"},
			{"negative rate", "rate_limits:\n  write_per_min: -1\n", "write_per_min"},
			{"negative body", "max_request_body_bytes: -5\n", "max_request_body_bytes"},
			{"no export dir", "export_dir: \"\"\n", "export_dir"},
			{"no author", "history:\n  enabled: true\n  author_name: \"\"\n", "author_name"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
				_, err := Load(dir)
				if err == nil || !strings.Contains(err.Error(), tt.want) {
					t.Errorf("got %v, want error containing %q", err, tt.want)
				}
			})
		}
	})
}

func TestExportPath(t *testing.T) {
	cfg := Default()
	if got := cfg.ExportPath("/data"); got != filepath.Join("/data", "exports") {
		t.Errorf("got %q", got)
	}
	cfg.ExportDir = "/var/exports"
	if got := cfg.ExportPath("/data"); got != "/var/exports" {
		t.Errorf("got %q", got)
	}
}
