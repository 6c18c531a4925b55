package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Config holds the full application configuration.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Discord       DiscordConfig       `yaml:"discord"`
	Roblox        RobloxConfig        `yaml:"roblox"`
	Sync          SyncConfig          `yaml:"sync"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Observability ObservabilityConfig `yaml:"observability"`
	Ranks         []RankEntry         `yaml:"ranks"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// DiscordConfig holds the bot token and the guild/channel wiring.
type DiscordConfig struct {
	Token          string `yaml:"token"`
	GuildID        string `yaml:"guild_id"`
	AdminChannelID string `yaml:"admin_channel_id"`
	LogChannelID   string `yaml:"log_channel_id"`
	// LogLevel is the minimum severity forwarded to the log channel:
	// debug, info, warn, error, or none to disable forwarding.
	LogLevel string `yaml:"log_level"`
}

// RobloxConfig holds the group binding and Open Cloud credentials.
type RobloxConfig struct {
	GroupID int64  `yaml:"group_id"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // override for tests; empty means production endpoints
}

// SyncConfig controls the reconciliation sweep.
type SyncConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// MemberDelay is the pause between members during a sweep whenever an
	// update (and hence a role projection) occurred.
	MemberDelay time.Duration `yaml:"member_delay"`
}

// RateLimitConfig bounds retries against the Discord API.
type RateLimitConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	// RolesPerSecond paces role mutations across all projections.
	RolesPerSecond float64 `yaml:"roles_per_second"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// RankEntry is one ladder definition in the YAML rank catalog.
type RankEntry struct {
	Order          int    `yaml:"order"`
	Name           string `yaml:"name"`
	PointsRequired int    `yaml:"points_required"`
	RobloxRankRef  int64  `yaml:"roblox_rank_ref"`
	AdminOnly      bool   `yaml:"admin_only"`
}

// RankDefinitions converts the catalog entries to the shared domain type.
func (c *Config) RankDefinitions() []sharedtypes.RankDefinition {
	defs := make([]sharedtypes.RankDefinition, 0, len(c.Ranks))
	for _, r := range c.Ranks {
		defs = append(defs, sharedtypes.RankDefinition{
			Order:          sharedtypes.RankOrder(r.Order),
			Name:           r.Name,
			PointsRequired: r.PointsRequired,
			RobloxRankRef:  r.RobloxRankRef,
			AdminOnly:      r.AdminOnly,
		})
	}
	return defs
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent. Environment variables
// override file values either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("GUILD_ID"); v != "" {
		cfg.Discord.GuildID = v
	}
	if v := os.Getenv("ADMIN_CHANNEL_ID"); v != "" {
		cfg.Discord.AdminChannelID = v
	}
	if v := os.Getenv("LOG_CHANNEL_ID"); v != "" {
		cfg.Discord.LogChannelID = v
	}
	if v := os.Getenv("DISCORD_LOG_LEVEL"); v != "" {
		cfg.Discord.LogLevel = v
	}
	if v := os.Getenv("ROBLOX_GROUP_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Roblox.GroupID = id
		}
	}
	if v := os.Getenv("ROBLOX_API_KEY"); v != "" {
		cfg.Roblox.APIKey = v
	}
	if v := os.Getenv("SYNC_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sync.SweepInterval = d
		}
	}
	if v := os.Getenv("MAX_RATE_LIMIT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.MaxRetries = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_BASE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimit.BaseDelay = d
		}
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Sync.SweepInterval == 0 {
		cfg.Sync.SweepInterval = time.Hour
	}
	if cfg.Sync.MemberDelay == 0 {
		cfg.Sync.MemberDelay = 500 * time.Millisecond
	}
	if cfg.RateLimit.MaxRetries == 0 {
		cfg.RateLimit.MaxRetries = 3
	}
	if cfg.RateLimit.BaseDelay == 0 {
		cfg.RateLimit.BaseDelay = time.Second
	}
	if cfg.RateLimit.RolesPerSecond == 0 {
		cfg.RateLimit.RolesPerSecond = 2
	}
	if cfg.Discord.LogLevel == "" {
		cfg.Discord.LogLevel = "warn"
	}
}

// Validate reports missing required settings.
func (cfg *Config) Validate() error {
	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("postgres DSN is required (DATABASE_URL)")
	}
	if cfg.NATS.URL == "" {
		return fmt.Errorf("NATS URL is required (NATS_URL)")
	}
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord bot token is required (DISCORD_BOT_TOKEN)")
	}
	if cfg.Discord.GuildID == "" {
		return fmt.Errorf("discord guild ID is required (GUILD_ID)")
	}
	if cfg.Roblox.GroupID == 0 {
		return fmt.Errorf("roblox group ID is required (ROBLOX_GROUP_ID)")
	}
	if cfg.Roblox.APIKey == "" {
		return fmt.Errorf("roblox API key is required (ROBLOX_API_KEY)")
	}
	if len(cfg.Ranks) == 0 {
		return fmt.Errorf("rank catalog must not be empty")
	}
	seen := make(map[int]bool, len(cfg.Ranks))
	for _, r := range cfg.Ranks {
		if seen[r.Order] {
			return fmt.Errorf("duplicate rank order %d in catalog", r.Order)
		}
		seen[r.Order] = true
	}
	return nil
}
