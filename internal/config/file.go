package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/musicarchive/internal/flagx"
	"github.com/dmitrijs2005/musicarchive/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the DTO decoded from JSON or YAML. Pointer fields tell
// "absent" apart from zero values.
type fileConfig struct {
	DatabasePath      *string         `json:"database_path" yaml:"database_path"`
	BusyTimeout       *timex.Duration `json:"busy_timeout" yaml:"busy_timeout"`
	LogLevel          *string         `json:"log_level" yaml:"log_level"`
	LogFormat         *string         `json:"log_format" yaml:"log_format"`
	MinPasswordLength *int            `json:"min_password_length" yaml:"min_password_length"`
	SaltLength        *int            `json:"salt_length" yaml:"salt_length"`
	ArgonTime         *uint32         `json:"argon_time" yaml:"argon_time"`
	ArgonMemoryKiB    *uint32         `json:"argon_memory_kib" yaml:"argon_memory_kib"`
	ArgonThreads      *uint8          `json:"argon_threads" yaml:"argon_threads"`
}

// parseFile overlays cfg with the file named by -c / -config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.DatabasePath != nil {
		cfg.DatabasePath = *fc.DatabasePath
	}
	if fc.BusyTimeout != nil {
		cfg.BusyTimeout = fc.BusyTimeout.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
	if fc.MinPasswordLength != nil {
		cfg.MinPasswordLength = *fc.MinPasswordLength
	}
	if fc.SaltLength != nil {
		cfg.SaltLength = *fc.SaltLength
	}
	if fc.ArgonTime != nil {
		cfg.ArgonTime = *fc.ArgonTime
	}
	if fc.ArgonMemoryKiB != nil {
		cfg.ArgonMemoryKiB = *fc.ArgonMemoryKiB
	}
	if fc.ArgonThreads != nil {
		cfg.ArgonThreads = *fc.ArgonThreads
	}
}
