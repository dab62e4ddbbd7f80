package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BlockSize     int      `toml:"block_size"`
	Outputs       []string `toml:"outputs"`
	LogDir        string   `toml:"log_dir"`
	JournalPath   string   `toml:"journal_path"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisUsername string   `toml:"redis_username"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisKey      string   `toml:"redis_key"`
	RedisTimeout  string   `toml:"redis_timeout"`
	HTTPURL       string   `toml:"http_url"`
	HTTPToken     string   `toml:"http_token"`
	HTTPTimeout   string   `toml:"http_timeout"`
	Input         string   `toml:"input"`
	Follow        *bool    `toml:"follow"`
	LogLevel      string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.bulk/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".bulk", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("block-size", fc.BlockSize, &cfg.BlockSize)
	s.setStrings("output", fc.Outputs, &cfg.Outputs)

	s.setString("log-dir", fc.LogDir, &cfg.LogDir)
	s.setString("journal", fc.JournalPath, &cfg.JournalPath)
	s.setString("redis-addr", fc.RedisAddr, &cfg.RedisAddr)
	s.setString("redis-username", fc.RedisUsername, &cfg.RedisUsername)
	s.setString("redis-password", fc.RedisPassword, &cfg.RedisPassword)
	s.setInt("redis-db", fc.RedisDB, &cfg.RedisDB)
	s.setString("redis-key", fc.RedisKey, &cfg.RedisKey)
	if err := s.setDuration("redis-timeout", fc.RedisTimeout, &cfg.RedisTimeout); err != nil {
		return err
	}

	s.setString("http-url", fc.HTTPURL, &cfg.HTTPURL)
	s.setString("http-token", fc.HTTPToken, &cfg.HTTPToken)
	if err := s.setDuration("http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setString("input", fc.Input, &cfg.Input)
	s.setBool("follow", fc.Follow, &cfg.Follow)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
