package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	prev := pathOverride
	pathOverride = path
	t.Cleanup(func() { pathOverride = prev })
	return path
}

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	withTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Shell != "" || cfg.TelegramBotToken != "" {
		t.Errorf("expected a zero-value Config, got %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	withTempConfig(t)
	want := &Config{
		Shell:            "/bin/zsh",
		TelegramBotToken: "abc123",
		TelegramChatIDs:  []int64{1, 2, 3},
		LiveViewAddr:     ":8787",
	}
	if err := Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Shell != want.Shell || got.TelegramBotToken != want.TelegramBotToken || got.LiveViewAddr != want.LiveViewAddr {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.TelegramChatIDs) != 3 {
		t.Errorf("got %d chat IDs, want 3", len(got.TelegramChatIDs))
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := withTempConfig(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected an error loading malformed JSON")
	}
}
