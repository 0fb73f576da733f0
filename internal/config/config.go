package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"github.com/dmitrijs2005/musicarchive/internal/cryptox"
	"github.com/dmitrijs2005/musicarchive/internal/logging"
)

// Config holds runtime settings for the archive.
type Config struct {
	DatabasePath string        `env:"DATABASE_PATH"`
	BusyTimeout  time.Duration `env:"BUSY_TIMEOUT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH"`
	SaltLength        int `env:"SALT_LENGTH"`

	// KDF parameters are not stored per account; changing them locks out
	// every existing account.
	ArgonTime      uint32 `env:"ARGON_TIME"`
	ArgonMemoryKiB uint32 `env:"ARGON_MEMORY_KIB"`
	ArgonThreads   uint8  `env:"ARGON_THREADS"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "music_library.db"
	c.BusyTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
	c.MinPasswordLength = 8
	c.SaltLength = 32
	c.ArgonTime = cryptox.DefaultKDFParams.Time
	c.ArgonMemoryKiB = cryptox.DefaultKDFParams.MemoryKiB
	c.ArgonThreads = cryptox.DefaultKDFParams.Threads
}

// KDFParams returns the password derivation parameters described by c.
func (c *Config) KDFParams() cryptox.KDFParams {
	return cryptox.KDFParams{
		Time:      c.ArgonTime,
		MemoryKiB: c.ArgonMemoryKiB,
		Threads:   c.ArgonThreads,
		KeyLen:    cryptox.DefaultKDFParams.KeyLen,
	}
}

// Validate rejects settings the credential store cannot run with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path is empty", common.ErrorValidation)
	}
	if c.SaltLength < common.MinSaltLength {
		return fmt.Errorf("%w: salt length %d is below %d bytes", common.ErrorValidation, c.SaltLength, common.MinSaltLength)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("%w: minimum password length must be positive", common.ErrorValidation)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("%w: busy timeout must not be negative", common.ErrorValidation)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return c.KDFParams().Validate()
}

// LoadConfig builds a Config from defaults, the optional config file,
// the environment and finally the flags found in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
