package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the client settings.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogFile        string        `mapstructure:"log_file"`
	LogLevel       string        `mapstructure:"log_level"`
	Reveal         RevealConfig  `mapstructure:"reveal"`
	Host           HostConfig    `mapstructure:"host"`
}

// RevealConfig paces the card reveal.
type RevealConfig struct {
	InitialDelay        time.Duration `mapstructure:"initial_delay"`
	CardInterval        time.Duration `mapstructure:"card_interval"`
	InterpretationDelay time.Duration `mapstructure:"interpretation_delay"`
}

// HostConfig describes the host identity and appearance.
type HostConfig struct {
	// InitData is a Telegram WebApp init data query string.
	InitData  string `mapstructure:"init_data"`
	UserID    int64  `mapstructure:"user_id"`
	Username  string `mapstructure:"username"`
	FirstName string `mapstructure:"first_name"`
	BgColor   string `mapstructure:"bg_color"`
}

const (
	defaultConfigPath          = "~/.config/luvo/config.toml"
	defaultAPIURL              = "http://localhost:8000"
	defaultRequestTimeout      = 90 * time.Second
	defaultLogFile             = "~/.local/state/luvo/luvo.log"
	defaultLogLevel            = "info"
	defaultInitialDelay        = 500 * time.Millisecond
	defaultCardInterval        = 300 * time.Millisecond
	defaultInterpretationDelay = 500 * time.Millisecond
)

// Load reads the config file, falling back to defaults when it is missing.
// Environment variables override file values: API_URL or LUVO_API_URL for
// the backend and LUVO_<SECTION>_<KEY> for everything else.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(resolved)

	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("log_file", defaultLogFile)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("reveal.initial_delay", defaultInitialDelay)
	v.SetDefault("reveal.card_interval", defaultCardInterval)
	v.SetDefault("reveal.interpretation_delay", defaultInterpretationDelay)
	v.SetDefault("host.init_data", "")
	v.SetDefault("host.user_id", 0)
	v.SetDefault("host.username", "")
	v.SetDefault("host.first_name", "")
	v.SetDefault("host.bg_color", "")

	v.SetEnvPrefix("LUVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_url", "LUVO_API_URL", "API_URL"); err != nil {
		return Config{}, fmt.Errorf("bind API_URL: %w", err)
	}

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
	c.LogFile = mustExpand(c.LogFile)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Reveal.InitialDelay < 0 {
		c.Reveal.InitialDelay = defaultInitialDelay
	}
	if c.Reveal.CardInterval < 0 {
		c.Reveal.CardInterval = defaultCardInterval
	}
	if c.Reveal.InterpretationDelay < 0 {
		c.Reveal.InterpretationDelay = defaultInterpretationDelay
	}
	c.Host.InitData = strings.TrimSpace(c.Host.InitData)
	c.Host.Username = strings.TrimSpace(c.Host.Username)
	c.Host.FirstName = strings.TrimSpace(c.Host.FirstName)
	c.Host.BgColor = strings.TrimSpace(c.Host.BgColor)
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
