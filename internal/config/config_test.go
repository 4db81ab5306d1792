package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
server:
  addr: ":9090"

alchemy:
  api_key: "test-key"
  timeout: 5s
  item_delay: 50ms

gemini:
  api_key: "gen-key"

logging:
  level: "debug"
  format: "console"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Unexpected server addr: %s", cfg.Server.Addr)
	}
	if cfg.Alchemy.Timeout != 5*time.Second {
		t.Errorf("Unexpected alchemy timeout: %v", cfg.Alchemy.Timeout)
	}
	if cfg.Alchemy.ItemDelay != 50*time.Millisecond {
		t.Errorf("Unexpected item delay: %v", cfg.Alchemy.ItemDelay)
	}

	// File omitted the base URL and model: defaults apply.
	if cfg.Alchemy.BaseURL == "" {
		t.Error("Expected default alchemy base URL")
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Unexpected default model: %s", cfg.Gemini.Model)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Cache.ProgressFloor != 10 || cfg.Cache.ProgressCeil != 95 {
		t.Errorf("Unexpected progress window: %d-%d", cfg.Cache.ProgressFloor, cfg.Cache.ProgressCeil)
	}

	// No API key set: validation must flag it.
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for missing alchemy.api_key")
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load("")
		cfg.Alchemy.APIKey = "key"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero timeout", func(c *Config) { c.Alchemy.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.Alchemy.MaxRetries = -1 }},
		{"inverted progress window", func(c *Config) { c.Cache.ProgressFloor = 95; c.Cache.ProgressCeil = 10 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline must validate: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
