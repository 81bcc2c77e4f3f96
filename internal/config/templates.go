package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Legacy Guardians Configuration

[simulation]
# Starting capital in dollars
starting_capital = 5000.0
# Wall-clock time between simulated price ticks
tick_interval = "3s"

[coach]
# OpenAI API key; prefer the OPENAI_API_KEY environment variable
api_key = ""
# Chat model for coach replies
model = "gpt-4o-mini"
# Default coach personality: "Conservative Coach", "Balanced Coach",
# "Aggressive Coach", "Tech Coach", "Income Coach"
default_style = "Balanced Coach"
# Per-request timeout
timeout = "15s"

[server]
# HTTP listen address for serve mode
addr = ":8080"

[storage]
# SQLite database path
db_path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotating file
file = true
`

// createTemplateConfig writes a starter config.toml so first-run users
// have something to edit.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
