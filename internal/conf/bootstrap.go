// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment variables,
// with CLI flag overrides.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/durationpb"
)

// NewBootstrap creates and initializes a Bootstrap configuration.
// It loads configuration from the specified config file path, applies defaults,
// and allows overrides from environment variables prefixed with HOTELE_.
//
// Configuration priority: CLI flags > Environment variables > Config file > Defaults
//
// The legacy deployment environment variables are honored directly:
//   - TELEGRAM_BOT_TOKEN: Telegram Bot API token
//   - GITHUB_REPO / GITHUB_TOKEN: workflow dispatch target and PAT
//   - KV_URL: Redis (Vercel KV) connection string
//   - NAVER_BEARER_TOKEN: upstream listing API bearer token
//
// Parameters:
//   - configPath: Path to the configuration file (optional, may be empty)
//
// Returns:
//   - *Bootstrap: Loaded configuration
//   - error: Configuration loading or validation error
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Enable environment variable support with HOTELE_ prefix
	v.SetEnvPrefix("HOTELE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind the legacy raw environment variable names for compatibility with
	// the original deployment (Vercel + GitHub Actions secrets).
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN", "HOTELE_TELEGRAM_TOKEN")
	_ = v.BindEnv("dispatch.repo", "GITHUB_REPO", "HOTELE_DISPATCH_REPO")
	_ = v.BindEnv("dispatch.token", "GITHUB_TOKEN", "HOTELE_DISPATCH_TOKEN")
	_ = v.BindEnv("data.redis.url", "KV_URL", "HOTELE_DATA_REDIS_URL")
	_ = v.BindEnv("data.redis.addr", "HOTELE_DATA_REDIS_ADDR")
	_ = v.BindEnv("data.database.source", "MYSQL_DSN", "HOTELE_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("naver.bearer_token", "NAVER_BEARER_TOKEN", "HOTELE_NAVER_BEARER_TOKEN")
	_ = v.BindEnv("naver.cookie_header", "NAVER_COOKIES", "HOTELE_NAVER_COOKIE_HEADER")

	// Load configuration file
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// If config file is specified but not found, return error
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// Parse configuration into Bootstrap structure
	bc := &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: durationpb.New(v.GetDuration("server.http.timeout")),
			},
		},
		Data: &Data{
			Redis: &Data_Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				Url:          v.GetString("data.redis.url"),
				ReadTimeout:  durationpb.New(v.GetDuration("data.redis.read_timeout")),
				WriteTimeout: durationpb.New(v.GetDuration("data.redis.write_timeout")),
			},
			Database: &Data_Database{
				Driver: v.GetString("data.database.driver"),
				Source: v.GetString("data.database.source"),
			},
		},
		Telegram: &Telegram{
			Token:   v.GetString("telegram.token"),
			ApiBase: v.GetString("telegram.api_base"),
		},
		Naver: &Naver{
			BearerToken:  v.GetString("naver.bearer_token"),
			CookieHeader: v.GetString("naver.cookie_header"),
			ArticleBase:  v.GetString("naver.article_base"),
			AgencyBase:   v.GetString("naver.agency_base"),
			PageCap:      v.GetInt32("naver.page_cap"),
			PageDelay:    durationpb.New(v.GetDuration("naver.page_delay")),
			Timeout:      durationpb.New(v.GetDuration("naver.timeout")),
		},
		Dispatch: &Dispatch{
			Mode:      v.GetString("dispatch.mode"),
			Repo:      v.GetString("dispatch.repo"),
			Token:     v.GetString("dispatch.token"),
			EventType: v.GetString("dispatch.event_type"),
		},
		Quota: &Quota{
			DailyLimit:   v.GetInt64("quota.daily_limit"),
			TotalLimit:   v.GetInt64("quota.total_limit"),
			FailOpen:     v.GetBool("quota.fail_open"),
			AllowedChats: readInt64Slice(v, "quota.allowed_chats"),
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	// Validate required fields
	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// readInt64Slice parses a viper key into int64 values, tolerating both
// YAML integer lists and comma-separated env strings.
func readInt64Slice(v *viper.Viper, key string) []int64 {
	raw := v.GetStringSlice(key)
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			var id int64
			if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
				out = append(out, id)
			}
		}
	}
	return out
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 60*time.Second)

	// Data defaults
	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.addr", "127.0.0.1:6379")
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)
	v.SetDefault("data.database.driver", "mysql")
	// Note: data.database.source is optional; history recording is skipped
	// when it is empty.

	// Telegram defaults
	v.SetDefault("telegram.api_base", "https://api.telegram.org")

	// Naver upstream defaults
	v.SetDefault("naver.article_base", "https://new.land.naver.com")
	v.SetDefault("naver.agency_base", "https://m.land.naver.com")
	v.SetDefault("naver.page_cap", 10)
	v.SetDefault("naver.page_delay", 300*time.Millisecond)
	v.SetDefault("naver.timeout", 10*time.Second)

	// Dispatch defaults
	v.SetDefault("dispatch.mode", "inline")
	v.SetDefault("dispatch.event_type", "extract_from_bot")

	// Quota defaults (the legacy bot-server policy used daily_limit: 20)
	v.SetDefault("quota.daily_limit", 5)
	v.SetDefault("quota.total_limit", 100)
	v.SetDefault("quota.fail_open", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that all required configuration fields are present and valid.
// It returns an error listing all missing required fields.
func Validate(bc *Bootstrap) error {
	var missingFields []string

	if bc.Telegram == nil || bc.Telegram.Token == "" {
		missingFields = append(missingFields, "telegram.token (TELEGRAM_BOT_TOKEN)")
	}

	if bc.Dispatch != nil && bc.Dispatch.Mode == "github" {
		if bc.Dispatch.Repo == "" {
			missingFields = append(missingFields, "dispatch.repo (GITHUB_REPO)")
		}
		if bc.Dispatch.Token == "" {
			missingFields = append(missingFields, "dispatch.token (GITHUB_TOKEN)")
		}
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	return nil
}
