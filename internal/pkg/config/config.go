package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Khronos KhronosConfig `yaml:"khronos"`
	Redis   RedisConfig   `yaml:"redis"`
	Retry   retry.Config  `yaml:"retry"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

type DiscordConfig struct {
	Token          string `yaml:"token"`
	WelcomeMessage string `yaml:"welcome_message"`
}

type KhronosConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	ServiceName string        `yaml:"service_name"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // empty: fall back to the in-memory cache
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	PendingBetTTL  time.Duration `yaml:"pending_bet_ttl"`
	FooterTTL      time.Duration `yaml:"footer_ttl"`
	LeaderboardTTL time.Duration `yaml:"leaderboard_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
	JSON  bool   `yaml:"json"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyEnv lets secrets come from the environment instead of the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("KHRONOS_API_KEY"); v != "" {
		c.Khronos.APIKey = v
	}
	if v := os.Getenv("KHRONOS_BASE_URL"); v != "" {
		c.Khronos.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

func (c *Config) validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token is required (discord.token or DISCORD_TOKEN)")
	}
	if c.Khronos.BaseURL == "" {
		return fmt.Errorf("khronos base URL is required (khronos.base_url or KHRONOS_BASE_URL)")
	}
	if c.Khronos.APIKey == "" {
		return fmt.Errorf("khronos API key is required (khronos.api_key or KHRONOS_API_KEY)")
	}
	return nil
}
