package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{"--dry-run", "Foo", "Talk:Bar"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !cfg.DryRun {
		t.Error("Expected dry run to be enabled")
	}
	if len(cfg.Titles) != 2 || cfg.Titles[0] != "Foo" || cfg.Titles[1] != "Talk:Bar" {
		t.Errorf("Expected positional titles, got %v", cfg.Titles)
	}
	if cfg.APIURL != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("Expected default API URL, got '%s'", cfg.APIURL)
	}
	if cfg.Summary != DefaultSummary {
		t.Errorf("Expected default summary, got '%s'", cfg.Summary)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--username", "Bot", "--password", "pw",
		"--limit", "5", "--create", "--summary", "custom",
		"--feed-url", "https://example.org/feed",
		"--max-retries", "7",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.EditLimit != 5 || !cfg.CreateIfAbsent || cfg.Summary != "custom" {
		t.Errorf("Unexpected configuration %+v", cfg)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("Expected 7 max retries, got %d", cfg.MaxRetries)
	}
	if cfg.FeedURL != "https://example.org/feed" {
		t.Errorf("Expected feed URL, got '%s'", cfg.FeedURL)
	}
}

func TestLoadArgsValidation(t *testing.T) {
	tests := [][]string{
		{},
		{"--dry-run", "--worker-count", "0"},
		{"--dry-run", "--limit=-1"},
		{"--dry-run", "--max-retries=-1"},
	}
	for _, args := range tests {
		if _, err := LoadArgs(args); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}
