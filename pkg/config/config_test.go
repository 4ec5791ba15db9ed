package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SCHEDULE_API_URL", "API_TIMEOUT", "CACHE_DRIVER", "BOT_MODE", "LOG_LEVEL", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.ScheduleAPIURL != "https://cabinet.amursu.ru/public_api/group/1671" {
		t.Errorf("unexpected api url %q", cfg.ScheduleAPIURL)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.APITimeout)
	}
	if cfg.CacheDriver != CacheDriverFile || cfg.BotMode != BotModePolling {
		t.Errorf("unexpected driver/mode %q/%q", cfg.CacheDriver, cfg.BotMode)
	}
	if cfg.LogLevel != logrus.InfoLevel {
		t.Errorf("unexpected log level %v", cfg.LogLevel)
	}
	if cfg.Location == nil {
		t.Errorf("location must never be nil")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("API_TIMEOUT", "10s")
	t.Setenv("CACHE_DRIVER", CacheDriverSQLite)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("unexpected timeout %v", cfg.APITimeout)
	}
	if cfg.CacheDriver != CacheDriverSQLite {
		t.Errorf("unexpected driver %q", cfg.CacheDriver)
	}
	if cfg.LogLevel != logrus.DebugLevel {
		t.Errorf("unexpected log level %v", cfg.LogLevel)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("unexpected location %v", cfg.Location)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("TIMEZONE", "Nowhere/Atlantis")

	cfg := LoadConfig()
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.APITimeout)
	}
	if cfg.LogLevel != logrus.InfoLevel {
		t.Errorf("expected default level, got %v", cfg.LogLevel)
	}
	if cfg.Location != time.Local {
		t.Errorf("expected local time fallback, got %v", cfg.Location)
	}
}
