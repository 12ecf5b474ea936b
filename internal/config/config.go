package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`
	SendBuffer int    `mapstructure:"send_buffer"`

	// GracePeriod is how long an emptied room survives a disconnect
	// before deletion, anticipating a fast rejoin after a page reload.
	GracePeriod time.Duration `mapstructure:"grace_period"`
	// ReapInterval and IdleThreshold drive the background sweep of
	// long-idle empty rooms.
	ReapInterval  time.Duration `mapstructure:"reap_interval"`
	IdleThreshold time.Duration `mapstructure:"idle_threshold"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 4000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("grace_period", "30s")
	v.SetDefault("reap_interval", "10m")
	v.SetDefault("idle_threshold", "30m")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Dur("grace", cfg.GracePeriod).Msg("config ready")
	return &cfg, nil
}
