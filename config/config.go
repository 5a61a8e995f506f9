package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"albot/internal/common"
)

type Config struct {
	Discord  DiscordConfig  `mapstructure:"discord"`
	Database DatabaseConfig `mapstructure:"database"`
	Albion   AlbionConfig   `mapstructure:"albion"`
	Verify   VerifyConfig   `mapstructure:"verify"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DiscordConfig struct {
	Token string `mapstructure:"token"`
	AppID string `mapstructure:"app_id"`
	// When set, commands are registered for this guild only, which
	// makes them available immediately instead of within the hour
	GuildID string `mapstructure:"guild_id"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// DSN builds the MySQL connection string
func (db DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		db.User, db.Password, db.Host, db.Port, db.Name)
}

type AlbionConfig struct {
	BaseURL      string              `mapstructure:"base_url"`
	Restrictions []RestrictionConfig `mapstructure:"restrictions"`
}

type RestrictionConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

func (albion AlbionConfig) CommonRestrictions() []common.Restriction {
	restrictions := make([]common.Restriction, 0, len(albion.Restrictions))
	for _, restriction := range albion.Restrictions {
		restrictions = append(restrictions, common.Restriction{
			Requests: restriction.Requests,
			Window:   time.Duration(restriction.WindowSeconds) * time.Second,
		})
	}
	return restrictions
}

type VerifyConfig struct {
	IntervalHours int `mapstructure:"interval_hours"`
	MaxAgeDays    int `mapstructure:"max_age_days"`
}

func (verify VerifyConfig) Interval() time.Duration {
	return time.Duration(verify.IntervalHours) * time.Hour
}

func (verify VerifyConfig) MaxAge() time.Duration {
	return time.Duration(verify.MaxAgeDays) * 24 * time.Hour
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the yaml config file and lets environment variables
// override any value, so secrets can stay out of the file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("albion.base_url", "")
	v.SetDefault("verify.interval_hours", 24)
	v.SetDefault("verify.max_age_days", 7)
	v.SetDefault("logging.level", "info")
	v.SetDefault("database.port", 3306)

	v.SetEnvPrefix("ALBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"discord.token", "discord.app_id", "discord.guild_id", "database.password"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord token is not set")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("discord application id is not set")
	}
	return &cfg, nil
}
