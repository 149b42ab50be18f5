package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values for configuration
const (
	DefaultPoints   = 7
	DefaultLogLevel = "info"
	DefaultSSHHost  = "::"
	DefaultSSHPort  = 2222
	DefaultHostKey  = ".ssh/neonpong_ed25519"
)

// Environment variables read by the SSH server
const (
	EnvSSHHost    = "NEONPONG_SSH_HOST"
	EnvSSHPort    = "NEONPONG_SSH_PORT"
	EnvSSHHostKey = "NEONPONG_SSH_HOST_KEY"
)

// Config holds the configuration of a local game (terminal or window)
type Config struct {
	PointsToWin int
	Seed        int64 // 0 selects a time based seed
	Mute        bool
	LogFile     string
	LogLevel    string
}

// ServerConfig holds the configuration of the SSH server
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	HostKeyPath string `toml:"host_key"`
	PointsToWin int    `toml:"points"`
	LogLevel    string `toml:"log_level"`
	MaxSessions int    `toml:"max_sessions"` // 0 means unlimited
}

// ParseArgs parses command line arguments for a local game and returns a Config
func ParseArgs(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	points := fs.Int("points", DefaultPoints, "points to win (>=1)")
	seed := fs.Int64("seed", 0, "random seed (0 = time based)")
	mute := fs.Bool("mute", false, "disable sound")
	logFile := fs.String("log", "", "write logs to this file")
	logLevel := fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	if *points < 1 {
		return nil, fmt.Errorf("points must be at least 1, got %d", *points)
	}

	if err := validateLogLevel(*logLevel); err != nil {
		return nil, err
	}

	cfg := &Config{
		PointsToWin: *points,
		Seed:        *seed,
		Mute:        *mute,
		LogFile:     *logFile,
		LogLevel:    strings.ToLower(*logLevel),
	}

	return cfg, nil
}

// DefaultServerConfig returns the built-in server settings
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:        DefaultSSHHost,
		Port:        DefaultSSHPort,
		HostKeyPath: DefaultHostKey,
		PointsToWin: DefaultPoints,
		LogLevel:    DefaultLogLevel,
	}
}

// ParseServerArgs builds the server configuration. Later sources override
// earlier ones: defaults, the --config TOML file, environment, flags.
func ParseServerArgs(args []string, getenv func(string) string) (*ServerConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	fs := flag.NewFlagSet("neonpong-ssh", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config file")
	host := fs.String("host", "", "listen host")
	port := fs.Int("port", 0, "listen port (1-65535)")
	hostKey := fs.String("host-key", "", "path to the SSH host key")
	points := fs.Int("points", 0, "points to win (>=1)")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	maxSessions := fs.Int("max-sessions", -1, "maximum concurrent sessions (0 = unlimited)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultServerConfig()

	if *configPath != "" {
		if err := LoadServerFile(*configPath, &cfg); err != nil {
			return nil, err
		}
	}

	if v := getenv(EnvSSHHost); v != "" {
		cfg.Host = v
	}
	if v := getenv(EnvSSHPort); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid port %q", EnvSSHPort, v)
		}
		cfg.Port = p
	}
	if v := getenv(EnvSSHHostKey); v != "" {
		cfg.HostKeyPath = v
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "host-key":
			cfg.HostKeyPath = *hostKey
		case "points":
			cfg.PointsToWin = *points
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-sessions":
			cfg.MaxSessions = *maxSessions
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return &cfg, nil
}

// LoadServerFile decodes a TOML file over cfg. Keys missing from the file
// keep their current values.
func LoadServerFile(path string, cfg *ServerConfig) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	return nil
}

// Validate checks server settings
func (c ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.PointsToWin < 1 {
		return fmt.Errorf("points must be at least 1, got %d", c.PointsToWin)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("max sessions must not be negative, got %d", c.MaxSessions)
	}
	return validateLogLevel(c.LogLevel)
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q", level)
}
