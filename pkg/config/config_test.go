package config

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesLayerOnDefaults(t *testing.T) {
	path := write(t, `
[graph]
auto_compact = true
compact_threshold = 25

[blueprints]
dir = "/tmp/bp"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Graph.AutoCompact || cfg.Graph.CompactThreshold != 25 {
		t.Errorf("graph = %+v", cfg.Graph)
	}
	// Untouched sections keep their defaults.
	if !cfg.Graph.CountArchived || cfg.Display.Color != "auto" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	dir, err := cfg.BlueprintDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/bp" {
		t.Errorf("BlueprintDir = %q", dir)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "graph = [[["},
		{"unknown key", "[graph]\nturbo = true\n"},
		{"threshold range", "[graph]\ncompact_threshold = 150\n"},
		{"color value", "[display]\ncolor = \"sometimes\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(write(t, tt.content)); err == nil {
				t.Fatal("Load accepted bad config")
			}
		})
	}
}

func TestTemplateParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteTemplate(path); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("template = %+v, want defaults", cfg)
	}
	if err := WriteTemplate(path); err == nil {
		t.Error("WriteTemplate overwrote existing file")
	}
}
