package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/bulk/internal/domain"
)

// Output names accepted by --output.
const (
	OutputConsole = "console"
	OutputFile    = "file"
	OutputJournal = "journal"
	OutputRedis   = "redis"
	OutputHTTP    = "http"
)

// Config holds CLI configuration for bulk.
type Config struct {
	BlockSize int
	Outputs   []string

	LogDir      string
	JournalPath string

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	RedisKey      string
	RedisTimeout  time.Duration

	HTTPURL     string
	HTTPToken   string
	HTTPTimeout time.Duration

	Input    string
	Follow   bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
// BlockSize has no default; it must be given.
func DefaultConfig() Config {
	return Config{
		Outputs:       []string{OutputConsole, OutputFile},
		LogDir:        ".",
		JournalPath:   "bulk.jsonl",
		RedisAddr:     "localhost:6379",
		RedisKey:      "bulk",
		RedisTimeout:  5 * time.Second,
		RedisPassword: os.Getenv("BULK_REDIS_PASSWORD"),
		HTTPTimeout:   10 * time.Second,
		HTTPToken:     os.Getenv("BULK_HTTP_TOKEN"),
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and normalizes outputs.
func (c *Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidBlockSize, c.BlockSize)
	}

	outputs, err := normalizeOutputs(c.Outputs)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		return fmt.Errorf("at least one output is required")
	}
	c.Outputs = outputs

	if c.HasOutput(OutputRedis) && c.RedisAddr == "" {
		return fmt.Errorf("redis-addr is required for the redis output")
	}
	if c.HasOutput(OutputHTTP) && c.HTTPURL == "" {
		return fmt.Errorf("http-url is required for the http output")
	}
	if c.HasOutput(OutputJournal) && c.JournalPath == "" {
		return fmt.Errorf("journal path is required for the journal output")
	}
	if c.Follow && c.Input == "" {
		return fmt.Errorf("follow requires an input file")
	}
	return nil
}

// HasOutput reports whether the named output is enabled.
func (c *Config) HasOutput(name string) bool {
	for _, o := range c.Outputs {
		if o == name {
			return true
		}
	}
	return false
}

// ParseBlockSize parses a positive block size argument.
func ParseBlockSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidBlockSize, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidBlockSize, n)
	}
	return n, nil
}

// normalizeOutputs splits comma lists, lowercases, drops duplicates and
// rejects unknown names. Order is preserved.
func normalizeOutputs(in []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, item := range in {
		for _, name := range strings.Split(item, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || seen[name] {
				continue
			}
			switch name {
			case OutputConsole, OutputFile, OutputJournal, OutputRedis, OutputHTTP:
			default:
				return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOutput, name)
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list value if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
