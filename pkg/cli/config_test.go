package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	cfg.JournalDir = "/var/lib/nativethread/journal"
	cfg.LogLevel = "debug"
	cfg.DefaultEntry = "sleep"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.JournalDir != cfg.JournalDir {
		t.Errorf("JournalDir = %q, want %q", loaded.JournalDir, cfg.JournalDir)
	}
	if loaded.LogLevel != "debug" || loaded.DefaultEntry != "sleep" {
		t.Errorf("reloaded config = %+v", loaded)
	}
}

func TestResolveJournalDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}

	want := filepath.Join(filepath.Dir(path), DefaultJournalDirName)
	if got := cfg.ResolveJournalDir(); got != want {
		t.Errorf("ResolveJournalDir() = %q, want %q", got, want)
	}

	cfg.JournalDir = "/custom"
	if got := cfg.ResolveJournalDir(); got != "/custom" {
		t.Errorf("ResolveJournalDir() = %q, want /custom", got)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
