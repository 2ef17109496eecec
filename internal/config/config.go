// Package config loads sl settings from a YAML file, a .env file and
// SL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var backends = []string{BackendJSON, BackendSQLite, BackendRedis, BackendMemory}

type Config struct {
	Backend      string        `yaml:"backend"`
	JSONPath     string        `yaml:"json_path"`
	SQLitePath   string        `yaml:"sqlite_path"`
	Redis        Redis         `yaml:"redis"`
	Pacing       Pacing        `yaml:"pacing"`
	WriteQuota   WriteQuota    `yaml:"write_quota"`
	Toast        Toast         `yaml:"toast"`
	Log          Log           `yaml:"log"`
	TabsCommand  string        `yaml:"tabs_command"`
	PollInterval time.Duration `yaml:"poll_interval"`
	HTTP         HTTP          `yaml:"http"`
	Check        Check         `yaml:"check"`
}

type Redis struct {
	Addr           string        `yaml:"addr"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	KeyPrefix      string        `yaml:"key_prefix"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PoolSize       int           `yaml:"pool_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // total time spent retrying the first ping
	RetryInterval  time.Duration `yaml:"retry_interval"`  // grows exponentially up to MaxWait
	MaxWait        time.Duration `yaml:"max_wait"`
	PingTimeout    time.Duration `yaml:"ping_timeout"`
	WarnThreshold  int           `yaml:"warn_threshold"`
}

// Pacing is the delay between consecutive writes of a bulk operation.
type Pacing struct {
	Migration time.Duration `yaml:"migration"`
	Import    time.Duration `yaml:"import"`
	Debug     time.Duration `yaml:"debug"`
}

// WriteQuota limits store writes. PerMinute 0 disables the limit.
type WriteQuota struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

type Toast struct {
	Delay     time.Duration `yaml:"delay"`
	AutoClose bool          `yaml:"auto_close"`
}

type Log struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Pretty bool   `yaml:"pretty"` // true => zap dev (color), false => zap prod (JSON)
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Check tunes the dead-URL checker.
type Check struct {
	Concurrency    int           `yaml:"concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
	ExcludeDomains []string      `yaml:"exclude_domains"` // 404s here may just mean "private"
}

// Default returns the configuration used when no file exists. Data files
// live next to the config file in dir.
func Default(dir string) Config {
	return Config{
		Backend:    BackendJSON,
		JSONPath:   filepath.Join(dir, "shortlinks.json"),
		SQLitePath: filepath.Join(dir, "shortlinks.db"),
		Redis: Redis{
			Addr:           "localhost:6379",
			KeyPrefix:      "sl:",
			DialTimeout:    5 * time.Second,
			ReadTimeout:    3 * time.Second,
			WriteTimeout:   3 * time.Second,
			PoolSize:       10,
			ConnectTimeout: 30 * time.Second,
			RetryInterval:  2 * time.Second,
			MaxWait:        10 * time.Second,
			PingTimeout:    5 * time.Second,
			WarnThreshold:  3,
		},
		Pacing: Pacing{
			Migration: 50 * time.Millisecond,
			Import:    50 * time.Millisecond,
			Debug:     10 * time.Millisecond,
		},
		WriteQuota: WriteQuota{
			PerMinute: 120,
			Burst:     120,
		},
		Toast: Toast{
			Delay:     2500 * time.Millisecond,
			AutoClose: true,
		},
		Log: Log{
			Level:  "warn",
			Pretty: true,
		},
		PollInterval: time.Second,
		HTTP: HTTP{
			Addr:            "127.0.0.1:8787",
			ShutdownTimeout: 5 * time.Second,
		},
		Check: Check{
			Concurrency: 10,
			Timeout:     10 * time.Second,
		},
	}
}

// DefaultPath returns ~/.config/sl/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sl", "config.yaml"), nil
}

// Load reads the config file at path, creating it with defaults when it
// does not exist, then applies .env and SL_* overrides and validates.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Non-fatal: run on defaults even if the file cannot be written.
		_ = Save(path, &cfg)
	case err != nil:
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
		}
	}

	applyEnv(&cfg)

	cfg.JSONPath = ExpandHome(cfg.JSONPath)
	cfg.SQLitePath = ExpandHome(cfg.SQLitePath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %s)", c.Backend, strings.Join(backends, ", "))
	}
	if c.Backend == BackendJSON && c.JSONPath == "" {
		return errors.New("json_path is required for the json backend")
	}
	if c.Backend == BackendSQLite && c.SQLitePath == "" {
		return errors.New("sqlite_path is required for the sqlite backend")
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return errors.New("redis.addr is required for the redis backend")
	}

	durations := map[string]time.Duration{
		"pacing.migration":      c.Pacing.Migration,
		"pacing.import":         c.Pacing.Import,
		"pacing.debug":          c.Pacing.Debug,
		"toast.delay":           c.Toast.Delay,
		"poll_interval":         c.PollInterval,
		"http.shutdown_timeout": c.HTTP.ShutdownTimeout,
		"check.timeout":         c.Check.Timeout,
		"redis.dial_timeout":    c.Redis.DialTimeout,
		"redis.read_timeout":    c.Redis.ReadTimeout,
		"redis.write_timeout":   c.Redis.WriteTimeout,
		"redis.connect_timeout": c.Redis.ConnectTimeout,
		"redis.retry_interval":  c.Redis.RetryInterval,
		"redis.max_wait":        c.Redis.MaxWait,
		"redis.ping_timeout":    c.Redis.PingTimeout,
	}
	keys := make([]string, 0, len(durations))
	for k := range durations {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if durations[k] < 0 {
			return fmt.Errorf("%s must not be negative, got %s", k, durations[k])
		}
	}

	if c.WriteQuota.PerMinute < 0 || c.WriteQuota.Burst < 0 {
		return errors.New("write_quota values must not be negative")
	}
	if c.Check.Concurrency < 0 {
		return errors.New("check.concurrency must not be negative")
	}

	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, rest)
}
