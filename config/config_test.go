package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("SEMINAR_AUTH_JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("CRON_SECRET", "cron-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080，实际=%d", cfg.Server.Port)
	}
	if cfg.Cron.Secret != "cron-secret" {
		t.Errorf("期望读取 CRON_SECRET，实际=%q", cfg.Cron.Secret)
	}
	if cfg.Cron.AutoRejectInterval != 5*time.Minute {
		t.Errorf("期望自动驳回间隔 5m，实际=%s", cfg.Cron.AutoRejectInterval)
	}
	if cfg.Chatbot.DefaultStartHour != 9 || cfg.Chatbot.DefaultDuration != 2*time.Hour {
		t.Errorf("聊天机器人默认时间窗不正确: %d %s", cfg.Chatbot.DefaultStartHour, cfg.Chatbot.DefaultDuration)
	}
}

func TestLoad_PrefixedCronSecretWins(t *testing.T) {
	t.Setenv("SEMINAR_AUTH_JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("SEMINAR_CRON_SECRET", "prefixed")
	t.Setenv("CRON_SECRET", "bare")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Cron.Secret != "prefixed" {
		t.Errorf("期望 prefixed，实际=%q", cfg.Cron.Secret)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080, Timezone: "UTC"},
			Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
			Cron:   CronConfig{AutoRejectInterval: time.Minute, AutoCompleteInterval: time.Minute},
			Events: EventsConfig{Driver: "none"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad timezone", func(c *Config) { c.Server.Timezone = "Mars/Olympus" }, true},
		{"bad driver", func(c *Config) { c.Events.Driver = "nats" }, true},
		{"zero interval", func(c *Config) { c.Cron.AutoCompleteInterval = 0 }, true},
		{"kafka ok", func(c *Config) { c.Events.Driver = "kafka" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
