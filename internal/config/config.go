package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"student-directory/internal/remote"
	"student-directory/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultEnvFile = ".env.dev"

type Config struct {
	Port                string
	ServiceName         string
	LogLevel            string
	RemoteBaseURL       string
	RemoteTimeout       time.Duration
	PageSize            int
	RateLimitMax        int
	RateLimitExpiration time.Duration
	OtelEndpoint        string
	ShutdownTimeout     time.Duration
}

func defaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("app_port", "8000")
	v.SetDefault("service_name", "student-directory")
	v.SetDefault("log_level", "info")
	v.SetDefault("remote_base_url", remote.DefaultBaseURL)
	v.SetDefault("remote_timeout", "0s")
	v.SetDefault("page_size", store.DefaultPageSize)
	v.SetDefault("rate_limit_max", 100)
	v.SetDefault("rate_limit_expiration", "60s")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("shutdown_timeout", "5s")
}

// Load reads envFile into the process environment when it exists, then
// resolves every setting from the environment over the defaults. An empty
// envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config.godotenv(%s): %w", envFile, err)
		}
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	remoteTimeout, err := duration(v, "remote_timeout")
	if err != nil {
		return Config{}, err
	}
	rateLimitExpiration, err := duration(v, "rate_limit_expiration")
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := duration(v, "shutdown_timeout")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:                v.GetString("app_port"),
		ServiceName:         v.GetString("service_name"),
		LogLevel:            v.GetString("log_level"),
		RemoteBaseURL:       v.GetString("remote_base_url"),
		RemoteTimeout:       remoteTimeout,
		PageSize:            v.GetInt("page_size"),
		RateLimitMax:        v.GetInt("rate_limit_max"),
		RateLimitExpiration: rateLimitExpiration,
		OtelEndpoint:        v.GetString("otel_exporter_otlp_endpoint"),
		ShutdownTimeout:     shutdownTimeout,
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 100
	}
	if cfg.RateLimitExpiration <= 0 {
		cfg.RateLimitExpiration = 60 * time.Second
	}

	return cfg, nil
}

// duration accepts a Go duration string or a bare integer of seconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
