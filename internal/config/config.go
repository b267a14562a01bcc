// Package config implements the optional additive JSON configuration
// file (SPEC_FULL.md §2.3), following the teacher's getConfigPath/
// loadConfig/saveConfig triplet. CLI flags always win; this only fills
// in gaps the flags leave unset.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the optional ~/.script-tty/config.json payload.
type Config struct {
	Shell string `json:"shell,omitempty"`

	TelegramBotToken string  `json:"telegram_bot_token,omitempty"`
	TelegramChatIDs  []int64 `json:"telegram_chat_ids,omitempty"`

	LiveViewAddr         string `json:"live_view_addr,omitempty"`
	LiveViewPasswordHash string `json:"live_view_password_hash,omitempty"`
}

// pathOverride lets tests redirect the config path to a temp directory.
var pathOverride string

func Path() string {
	if pathOverride != "" {
		os.MkdirAll(filepath.Dir(pathOverride), 0700)
		return pathOverride
	}
	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, ".script-tty")
	os.MkdirAll(dir, 0700)
	return filepath.Join(dir, "config.json")
}

// Load reads the config file, returning a zero-value Config (not an
// error) when none exists yet — the recorder runs fine with no config.
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the config file atomically enough for a single-user CLI
// tool: truncate-and-rewrite under 0600.
func Save(c *Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0600)
}
