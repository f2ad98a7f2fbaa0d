package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Pipeline.ClassifierMode != "hybrid" {
		t.Errorf("expected default classifier mode hybrid, got %q", cfg.Pipeline.ClassifierMode)
	}
	if cfg.Pipeline.MaxRetrievalDocs != 12 {
		t.Errorf("expected default max_retrieval_docs 12, got %d", cfg.Pipeline.MaxRetrievalDocs)
	}
	if cfg.Pipeline.RejectionVectorThreshold != 0.35 {
		t.Errorf("expected default rejection threshold 0.35, got %v", cfg.Pipeline.RejectionVectorThreshold)
	}
}

func TestLoad_envOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLASSIFIER_MODE", "llm_only")
	t.Setenv("MAX_RETRY_LEVEL", "2")
	t.Setenv("ENABLE_RERANKING", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.ClassifierMode != "llm_only" {
		t.Errorf("expected env override llm_only, got %q", cfg.Pipeline.ClassifierMode)
	}
	if cfg.Pipeline.MaxRetryLevel != 2 {
		t.Errorf("expected env override max_retry_level=2, got %d", cfg.Pipeline.MaxRetryLevel)
	}
	if !cfg.Pipeline.EnableReranking {
		t.Error("expected env override enable_reranking=true")
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
