package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Discord struct {
		Token            string   `yaml:"token"`
		ApplicationID    string   `yaml:"application_id"`
		GuildID          string   `yaml:"guild_id"`
		AllowedChannels  []string `yaml:"allowed_channels"`
		AuditChannel     string   `yaml:"audit_channel"`
		BroadcastChannel string   `yaml:"broadcast_channel"`
	} `yaml:"discord"`
	Trivia struct {
		APIURL           string `yaml:"api_url"`
		AnnounceInterval string `yaml:"announce_interval"`
	} `yaml:"trivia"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		PendingTTL string `yaml:"pending_ttl"`
	} `yaml:"redis"`
	Leaderboard struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"leaderboard"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"amqp"`
}

// Load reads YAML config from path and applies env overrides for secrets.
// A missing file is not an error; env-only deployments are supported.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	overrideString(&cfg.Discord.Token, "DISCORD_TOKEN")
	overrideString(&cfg.Discord.ApplicationID, "DISCORD_APPLICATION_ID")
	overrideString(&cfg.Discord.GuildID, "DISCORD_GUILD_ID")
	overrideString(&cfg.Mongo.URI, "MONGO_URI")
	overrideString(&cfg.Postgres.URL, "POSTGRES_URL")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.AMQP.URL, "AMQP_URL")

	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "quizBot"
	}
	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
