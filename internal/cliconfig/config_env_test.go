package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		initial Config
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"BULK_BLOCK_SIZE":    "7",
				"BULK_OUTPUTS":       "console,redis",
				"BULK_REDIS_ADDR":    "cache:6379",
				"BULK_REDIS_DB":      "3",
				"BULK_REDIS_TIMEOUT": "250ms",
				"BULK_FOLLOW":        "1",
				"BULK_LOG_LEVEL":     "warn",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.BlockSize != 7 || cfg.RedisDB != 3 {
					t.Errorf("BlockSize/RedisDB = %d/%d", cfg.BlockSize, cfg.RedisDB)
				}
				if len(cfg.Outputs) != 2 || cfg.Outputs[1] != "redis" {
					t.Errorf("Outputs = %v", cfg.Outputs)
				}
				if cfg.RedisAddr != "cache:6379" || cfg.RedisTimeout != 250*time.Millisecond {
					t.Errorf("redis settings = %q %v", cfg.RedisAddr, cfg.RedisTimeout)
				}
				if !cfg.Follow || cfg.LogLevel != "warn" {
					t.Errorf("Follow/LogLevel = %v/%q", cfg.Follow, cfg.LogLevel)
				}
			},
		},
		{
			name: "applies http settings",
			envVars: map[string]string{
				"BULK_OUTPUTS":      "http",
				"BULK_HTTP_URL":     "http://hooks.local/bulk",
				"BULK_HTTP_TOKEN":   "secret",
				"BULK_HTTP_TIMEOUT": "2s",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.HTTPURL != "http://hooks.local/bulk" || cfg.HTTPToken != "secret" {
					t.Errorf("http settings = %q %q", cfg.HTTPURL, cfg.HTTPToken)
				}
				if cfg.HTTPTimeout != 2*time.Second {
					t.Errorf("HTTPTimeout = %v, want 2s", cfg.HTTPTimeout)
				}
			},
		},
		{
			name:    "returns error for invalid http timeout",
			envVars: map[string]string{"BULK_HTTP_TIMEOUT": "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "respects changed flags",
			envVars: map[string]string{"BULK_BLOCK_SIZE": "9", "BULK_LOG_DIR": "/env"},
			changed: map[string]bool{"block-size": true},
			initial: Config{BlockSize: 2},
			check: func(t *testing.T, cfg Config) {
				if cfg.BlockSize != 2 {
					t.Errorf("BlockSize = %d, want 2", cfg.BlockSize)
				}
				if cfg.LogDir != "/env" {
					t.Errorf("LogDir = %q, want /env", cfg.LogDir)
				}
			},
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"BULK_BLOCK_SIZE": "many"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"BULK_REDIS_TIMEOUT": "later"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
