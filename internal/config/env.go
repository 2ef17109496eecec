package config

import (
	"os"
	"strconv"
	"time"
)

func applyEnv(cfg *Config) {
	cfg.Backend = getenv("SL_BACKEND", cfg.Backend)
	cfg.JSONPath = getenv("SL_JSON_PATH", cfg.JSONPath)
	cfg.SQLitePath = getenv("SL_SQLITE_PATH", cfg.SQLitePath)
	cfg.TabsCommand = getenv("SL_TABS_COMMAND", cfg.TabsCommand)
	cfg.PollInterval = mustDuration("SL_POLL_INTERVAL", cfg.PollInterval)

	// Redis
	cfg.Redis.Addr = getenv("SL_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Username = getenv("SL_REDIS_USERNAME", cfg.Redis.Username)
	cfg.Redis.Password = getenv("SL_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getenvInt("SL_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.KeyPrefix = getenv("SL_REDIS_KEY_PREFIX", cfg.Redis.KeyPrefix)

	// Writes
	cfg.WriteQuota.PerMinute = getenvInt("SL_WRITE_QUOTA_PER_MINUTE", cfg.WriteQuota.PerMinute)
	cfg.WriteQuota.Burst = getenvInt("SL_WRITE_QUOTA_BURST", cfg.WriteQuota.Burst)

	// Output
	cfg.Toast.Delay = mustDuration("SL_TOAST_DELAY", cfg.Toast.Delay)
	cfg.Toast.AutoClose = mustBool("SL_TOAST_AUTO_CLOSE", cfg.Toast.AutoClose)
	cfg.Log.Level = getenv("SL_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = mustBool("SL_LOG_PRETTY", cfg.Log.Pretty)

	// HTTP
	cfg.HTTP.Addr = getenv("SL_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.ShutdownTimeout = mustDuration("SL_HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)

	// Check
	cfg.Check.Concurrency = getenvInt("SL_CHECK_CONCURRENCY", cfg.Check.Concurrency)
	cfg.Check.Timeout = mustDuration("SL_CHECK_TIMEOUT", cfg.Check.Timeout)
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
