package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok-123")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Discord.Token != "tok-123" {
		t.Fatalf("expected env token, got %q", cfg.Discord.Token)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Fatalf("expected env mongo uri, got %q", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "quizBot" {
		t.Fatalf("expected default database, got %q", cfg.Mongo.Database)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
discord:
  token: from-file
  allowed_channels:
    - chan-1
    - chan-2
  audit_channel: audit-1
trivia:
  announce_interval: 2m
redis:
  addr: localhost:6379
  pending_ttl: 30s
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DISCORD_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Discord.Token != "from-env" {
		t.Fatalf("env must override file, got %q", cfg.Discord.Token)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from file, got %q", cfg.Server.Port)
	}
	if len(cfg.Discord.AllowedChannels) != 2 || cfg.Discord.AllowedChannels[0] != "chan-1" {
		t.Fatalf("unexpected allow-list %v", cfg.Discord.AllowedChannels)
	}
	if cfg.Discord.AuditChannel != "audit-1" {
		t.Fatalf("unexpected audit channel %q", cfg.Discord.AuditChannel)
	}
	if got := TTLDuration(cfg.Trivia.AnnounceInterval, 5*time.Minute); got != 2*time.Minute {
		t.Fatalf("expected 2m interval, got %v", got)
	}
	if got := TTLDuration(cfg.Redis.PendingTTL, 10*time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s ttl, got %v", got)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t-"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDurationFallbacks(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty input must fall back, got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("invalid input must fall back, got %v", got)
	}
}
