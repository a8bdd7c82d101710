package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:             "8080",
		DataBackend:      "memory",
		SQLiteDBPath:     "./data/test.db",
		SessionTTL:       time.Hour,
		DateOrder:        "dayfirst",
		InsightProviders: "gemini,openrouter",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid memory backend",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid sqlite backend",
			mutate: func(c *Config) { c.DataBackend = "sqlite" },
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errContains: "invalid port 'abc'",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errContains: "must be between 1 and 65535",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errContains: "invalid data backend",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errContains: "database path cannot be empty",
		},
		{
			name:        "bad date order",
			mutate:      func(c *Config) { c.DateOrder = "yearfirst" },
			wantErr:     true,
			errContains: "invalid date order",
		},
		{
			name:        "unknown provider",
			mutate:      func(c *Config) { c.InsightProviders = "gemini,skynet" },
			wantErr:     true,
			errContains: "unknown insight provider 'skynet'",
		},
		{
			name:        "tiny session TTL",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errContains: "session TTL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProviders(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"gemini,openrouter", []string{"gemini", "openrouter"}},
		{" Gemini , OpenRouter ", []string{"gemini", "openrouter"}},
		{"", nil},
		{" , ", []string{}},
	}
	for _, tt := range tests {
		c := Config{InsightProviders: tt.in}
		got := c.Providers()
		if len(got) != len(tt.want) {
			t.Errorf("Providers(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Providers(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
