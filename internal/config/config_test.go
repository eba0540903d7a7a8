package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MasterURI != "http://localhost:11311" {
		t.Errorf("unexpected master URI %s", cfg.MasterURI)
	}
	if cfg.Proxy.Port != 33133 {
		t.Errorf("unexpected proxy port %d", cfg.Proxy.Port)
	}
	if len(cfg.Filters.Parameters) != 2 {
		t.Errorf("expected 2 default parameter filters, got %v", cfg.Filters.Parameters)
	}
	if len(cfg.Filters.PublishedTopics) != 1 || cfg.Filters.PublishedTopics[0] != "/rosout" {
		t.Errorf("expected /rosout publisher filter, got %v", cfg.Filters.PublishedTopics)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
master_uri: http://master.local:11311
proxy:
  port: 44144
filters:
  published_topics:
    - /rosout
    - /diagnostics
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MasterURI != "http://master.local:11311" {
		t.Errorf("unexpected master URI %s", cfg.MasterURI)
	}
	if cfg.Proxy.Port != 44144 {
		t.Errorf("unexpected port %d", cfg.Proxy.Port)
	}
	if len(cfg.Filters.PublishedTopics) != 2 {
		t.Errorf("expected overridden topic filters, got %v", cfg.Filters.PublishedTopics)
	}
	// Untouched filter lists keep their defaults.
	if len(cfg.Filters.Parameters) != 2 {
		t.Errorf("expected default parameter filters, got %v", cfg.Filters.Parameters)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestFromEnvHonorsMasterURI(t *testing.T) {
	t.Setenv("ROS_MASTER_URI", "http://robot:11311")

	cfg := FromEnv()
	if cfg.MasterURI != "http://robot:11311" {
		t.Errorf("expected env master URI, got %s", cfg.MasterURI)
	}
}
