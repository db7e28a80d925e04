package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const minimalConfig = `
http:
  port: 8080
database:
  addrs: ["localhost:6379"]
backend:
  base_url: "http://localhost:9200"
embedding:
  model: "text-embedding-3-small"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	writeConfig(t, minimalConfig)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("shutdown default = %d, want 10", cfg.HTTP.ShutdownSec)
	}
	if cfg.Backend.IndexPrefix != "products-" {
		t.Errorf("index prefix default = %q", cfg.Backend.IndexPrefix)
	}
	if cfg.Backend.TimeoutSec != 5 {
		t.Errorf("backend timeout default = %d", cfg.Backend.TimeoutSec)
	}
	if cfg.Storage.KeyPrefix != "searchapi:" {
		t.Errorf("key prefix default = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Search.HybridTopK != 100 {
		t.Errorf("hybrid top k default = %d", cfg.Search.HybridTopK)
	}
	if cfg.Embedding.RetryAttempts != 3 || cfg.Embedding.RetryBaseDelayMs != 200 {
		t.Errorf("retry defaults = %d/%d", cfg.Embedding.RetryAttempts, cfg.Embedding.RetryBaseDelayMs)
	}
	if cfg.Embedding.CacheTTLSec != 86400 {
		t.Errorf("cache ttl default = %d", cfg.Embedding.CacheTTLSec)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis-prod:6379")
	t.Setenv("TEST_API_KEY", "")

	writeConfig(t, `
http:
  port: 8080
database:
  addrs: ["${TEST_REDIS_ADDR}"]
backend:
  base_url: "${TEST_BACKEND_URL:-http://localhost:9200}"
embedding:
  model: "text-embedding-3-small"
  api_key: "${TEST_API_KEY:-fallback-key}"
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Addrs[0] != "redis-prod:6379" {
		t.Errorf("addr = %q", cfg.Database.Addrs[0])
	}
	if cfg.Backend.BaseURL != "http://localhost:9200" {
		t.Errorf("base_url = %q, want the :-default", cfg.Backend.BaseURL)
	}
	if cfg.Embedding.APIKey != "fallback-key" {
		t.Errorf("api_key = %q, want fallback for empty env var", cfg.Embedding.APIKey)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing port", `
database:
  addrs: ["localhost:6379"]
backend:
  base_url: "http://localhost:9200"
embedding:
  model: "m"
`},
		{"missing database addrs", `
http:
  port: 8080
backend:
  base_url: "http://localhost:9200"
embedding:
  model: "m"
`},
		{"missing backend url", `
http:
  port: 8080
database:
  addrs: ["localhost:6379"]
embedding:
  model: "m"
`},
		{"missing embedding model", `
http:
  port: 8080
database:
  addrs: ["localhost:6379"]
backend:
  base_url: "http://localhost:9200"
`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			writeConfig(t, tc.content)
			if _, err := Load("test"); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
