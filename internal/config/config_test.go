package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template not created: %v", err)
	}
	if cfg.Simulation.StartingCapital != 5000 {
		t.Errorf("starting capital = %v, want 5000", cfg.Simulation.StartingCapital)
	}
	if cfg.Simulation.TickInterval != 3*time.Second {
		t.Errorf("tick interval = %v, want 3s", cfg.Simulation.TickInterval)
	}
	if cfg.Coach.DefaultStyle != "Balanced Coach" {
		t.Errorf("default style = %q", cfg.Coach.DefaultStyle)
	}
}

func TestLoadReadsFileValues(t *testing.T) {
	dir := t.TempDir()
	content := `
[simulation]
starting_capital = 10000.0
tick_interval = "1s"

[server]
addr = ":9999"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.StartingCapital != 10000 {
		t.Errorf("starting capital = %v, want 10000", cfg.Simulation.StartingCapital)
	}
	if cfg.Simulation.TickInterval != time.Second {
		t.Errorf("tick interval = %v, want 1s", cfg.Simulation.TickInterval)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Server.Addr)
	}
	// Unset sections keep defaults.
	if cfg.Coach.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default", cfg.Coach.Model)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GUARDIANS_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Coach.APIKey != "sk-test" {
		t.Errorf("api key override not applied")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level override not applied: %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Simulation.StartingCapital = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative capital passed validation")
	}

	cfg = Default()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("bad log level passed validation")
	}
}
