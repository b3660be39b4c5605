package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines agent configuration.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	DB      DBConfig      `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	Monitor MonitorConfig `yaml:"monitor"`
	Sync    SyncConfig    `yaml:"sync"`
}

type RemoteConfig struct {
	BaseURL     string `yaml:"base_url"`
	LinkingCode string `yaml:"linking_code"`
	ProbeAddr   string `yaml:"probe_addr"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type MonitorConfig struct {
	PollSecs       int  `yaml:"poll_seconds"`
	CommandMillis  int  `yaml:"command_poll_millis"`
	HeartbeatSecs  int  `yaml:"heartbeat_seconds"`
	AutoStart      bool `yaml:"auto_start"`
	TrackFileEdits bool `yaml:"track_file_edits"`
}

type SyncConfig struct {
	IntervalSecs   int `yaml:"interval_seconds"`
	BatchSize      int `yaml:"batch_size"`
	RetrySecs      int `yaml:"retry_seconds"`
	MaxOfflineDays int `yaml:"max_offline_days"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Remote: RemoteConfig{
			BaseURL:     "https://deskwatch-default-rtdb.firebaseio.com",
			ProbeAddr:   "8.8.8.8:53",
			TimeoutSecs: 8,
		},
		DB: DBConfig{
			Path: "deskwatch.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Monitor: MonitorConfig{
			PollSecs:       3,
			CommandMillis:  500,
			HeartbeatSecs:  15,
			AutoStart:      true,
			TrackFileEdits: true,
		},
		Sync: SyncConfig{
			IntervalSecs:   5,
			BatchSize:      100,
			RetrySecs:      300,
			MaxOfflineDays: 30,
		},
	}

	if path := os.Getenv("DESKWATCH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if url := os.Getenv("DESKWATCH_BASE_URL"); url != "" {
		cfg.Remote.BaseURL = url
	}
	if code := os.Getenv("DESKWATCH_LINKING_CODE"); code != "" {
		cfg.Remote.LinkingCode = code
	}
	if addr := os.Getenv("DESKWATCH_PROBE_ADDR"); addr != "" {
		cfg.Remote.ProbeAddr = addr
	}
	if dbPath := os.Getenv("DESKWATCH_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("DESKWATCH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("DESKWATCH_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if pollStr := os.Getenv("DESKWATCH_POLL_SECONDS"); pollStr != "" {
		poll, err := strconv.Atoi(pollStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DESKWATCH_POLL_SECONDS: %w", err)
		}
		cfg.Monitor.PollSecs = poll
	}
	if syncStr := os.Getenv("DESKWATCH_SYNC_SECONDS"); syncStr != "" {
		interval, err := strconv.Atoi(syncStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DESKWATCH_SYNC_SECONDS: %w", err)
		}
		cfg.Sync.IntervalSecs = interval
	}
	if batchStr := os.Getenv("DESKWATCH_SYNC_BATCH_SIZE"); batchStr != "" {
		batch, err := strconv.Atoi(batchStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DESKWATCH_SYNC_BATCH_SIZE: %w", err)
		}
		cfg.Sync.BatchSize = batch
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// PollInterval returns the foreground-window poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.PollSecs) * time.Second
}

// SyncInterval returns the sync tick interval.
func (c Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.IntervalSecs) * time.Second
}

// CommandPollInterval returns the remote command poll interval.
func (c Config) CommandPollInterval() time.Duration {
	return time.Duration(c.Monitor.CommandMillis) * time.Millisecond
}

// HeartbeatInterval returns the lastSeen heartbeat interval.
func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Monitor.HeartbeatSecs) * time.Second
}

// RemoteTimeout returns the per-call remote request timeout.
func (c Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSecs) * time.Second
}

// RetryInterval returns the base offline reconnect interval.
func (c Config) RetryInterval() time.Duration {
	return time.Duration(c.Sync.RetrySecs) * time.Second
}
