package submit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds per-repository overrides. All fields are optional: owner and
// repo default to values parsed from the chosen remote's URL, and remote
// defaults to the only GitHub remote (or an interactive choice).
type Config struct {
	Owner  string `json:"owner,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Remote string `json:"remote,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".jj", "jj-stack", "config.json")
}

// LoadConfig loads the repository config, returning an empty config if the
// file does not exist.
func LoadConfig(repoRoot string) (*Config, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the repository config, creating the directory if
// needed.
func SaveConfig(repoRoot string, cfg *Config) error {
	dir := filepath.Dir(configPath(repoRoot))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath(repoRoot), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
