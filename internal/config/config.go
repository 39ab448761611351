package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot        BotConfig        `mapstructure:"bot"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// Telegram bot configuration
type BotConfig struct {
	Token             string        `mapstructure:"token"`
	DestinationChatID int64         `mapstructure:"destination_chat_id"`
	AdminIDs          []int64       `mapstructure:"admin_ids"`
	Webhook           WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration; long polling is used when Endpoint is empty
type WebhookConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ListenPort string `mapstructure:"listen_port"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// relay policy settings
type ModerationConfig struct {
	RateLimit       time.Duration `mapstructure:"rate_limit"`
	JanitorSchedule string        `mapstructure:"janitor_schedule"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetEnvPrefix("TGRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func validate(c *Config) error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token is required")
	}
	// The webhook secret is derived from the token tail; anything this short
	// is not a real bot token anyway.
	if len(c.Bot.Token) < 6 {
		return fmt.Errorf("bot.token is too short to be a bot token")
	}
	if c.Bot.DestinationChatID == 0 {
		return fmt.Errorf("bot.destination_chat_id is required")
	}
	if c.Moderation.RateLimit < 0 {
		return fmt.Errorf("moderation.rate_limit must not be negative")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("database.driver must be sqlite or mysql, got %q", c.Database.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.webhook.endpoint", "")
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("moderation.rate_limit", "5m")
	v.SetDefault("moderation.janitor_schedule", "")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/bot_data.db")
	v.SetDefault("database.charset", "utf8mb4")
}
