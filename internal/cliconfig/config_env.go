package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables (BULK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("block-size", os.Getenv("BULK_BLOCK_SIZE"), &cfg.BlockSize); err != nil {
		return err
	}
	if v := os.Getenv("BULK_OUTPUTS"); v != "" {
		s.setStrings("output", strings.Split(v, ","), &cfg.Outputs)
	}

	s.setString("log-dir", os.Getenv("BULK_LOG_DIR"), &cfg.LogDir)
	s.setString("journal", os.Getenv("BULK_JOURNAL"), &cfg.JournalPath)
	s.setString("redis-addr", os.Getenv("BULK_REDIS_ADDR"), &cfg.RedisAddr)
	s.setString("redis-username", os.Getenv("BULK_REDIS_USERNAME"), &cfg.RedisUsername)
	s.setString("redis-password", os.Getenv("BULK_REDIS_PASSWORD"), &cfg.RedisPassword)
	if err := s.setIntFromString("redis-db", os.Getenv("BULK_REDIS_DB"), &cfg.RedisDB); err != nil {
		return err
	}
	s.setString("redis-key", os.Getenv("BULK_REDIS_KEY"), &cfg.RedisKey)
	if err := s.setDuration("redis-timeout", os.Getenv("BULK_REDIS_TIMEOUT"), &cfg.RedisTimeout); err != nil {
		return err
	}

	s.setString("http-url", os.Getenv("BULK_HTTP_URL"), &cfg.HTTPURL)
	s.setString("http-token", os.Getenv("BULK_HTTP_TOKEN"), &cfg.HTTPToken)
	if err := s.setDuration("http-timeout", os.Getenv("BULK_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setString("input", os.Getenv("BULK_INPUT"), &cfg.Input)
	s.setBoolFromString("follow", os.Getenv("BULK_FOLLOW"), &cfg.Follow)
	s.setString("log-level", os.Getenv("BULK_LOG_LEVEL"), &cfg.LogLevel)

	return nil
}
