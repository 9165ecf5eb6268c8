package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fixkme/uicore/errs"
)

type AppConfig struct {
	LogConfig  `json:",inline" yaml:",inline"`
	LoopConfig `json:",inline" yaml:",inline"`
	IsDebug    bool `json:"is_debug" yaml:"is_debug"`
}

type LogConfig struct {
	LogPath   string `json:"log_path" yaml:"log_path"`
	LogName   string `json:"log_name" yaml:"log_name"`
	LogLevel  string `json:"log_level" yaml:"log_level"` // trace, debug, info, notice, warn, error, fatal
	LogStdOut bool   `json:"log_std_out" yaml:"log_std_out"`
}

type LoopConfig struct {
	TaskQueueSize int `json:"task_queue_size" yaml:"task_queue_size"` // pending tasks before TrySubmit fails
	MaxWaitMs     int `json:"max_wait_ms" yaml:"max_wait_ms"`         // longest sleep without a timer due, ms
}

const (
	DefaultTaskQueueSize = 1024
	DefaultMaxWaitMs     = 1000
)

func Default() *AppConfig {
	return &AppConfig{
		LogConfig: LogConfig{
			LogName:  "uicore",
			LogLevel: "info",
		},
		LoopConfig: LoopConfig{
			TaskQueueSize: DefaultTaskQueueSize,
			MaxWaitMs:     DefaultMaxWaitMs,
		},
	}
}

func (c *LoopConfig) MaxWait() time.Duration {
	if c == nil || c.MaxWaitMs <= 0 {
		return DefaultMaxWaitMs * time.Millisecond
	}
	return time.Duration(c.MaxWaitMs) * time.Millisecond
}

func (c *LoopConfig) QueueSize() int {
	if c == nil || c.TaskQueueSize <= 0 {
		return DefaultTaskQueueSize
	}
	return c.TaskQueueSize
}

// Load reads configFile over the defaults, then lets loadFromEnv patch the
// result. An empty configFile skips the file. The format follows the file
// extension: .yaml, .yml or .json.
func Load(configFile string, loadFromEnv func(*AppConfig) error) (*AppConfig, error) {
	conf := Default()
	if len(configFile) > 0 {
		if err := loadFromFile(configFile, conf); err != nil {
			return nil, err
		}
	}
	if loadFromEnv != nil {
		if err := loadFromEnv(conf); err != nil {
			return nil, errs.Config.Printf("env: %v", err)
		}
	}
	return conf, nil
}

func loadFromFile(configFile string, conf *AppConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return errs.Config.Printf("read %s: %v", configFile, err)
	}
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, conf)
	case ".json":
		err = json.Unmarshal(data, conf)
	default:
		return errs.Config.Printf("unsupported config format %q", ext)
	}
	if err != nil {
		return errs.Config.Printf("parse %s: %v", configFile, err)
	}
	return nil
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
