package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/config"
	"github.com/luvo-tarot/luvo/internal/host"
	"github.com/luvo-tarot/luvo/internal/prefs"
	"github.com/luvo-tarot/luvo/internal/reading"
	"github.com/luvo-tarot/luvo/internal/reveal"
	"github.com/luvo-tarot/luvo/internal/state"
	"github.com/luvo-tarot/luvo/internal/ui"
)

// Options configure the luvo application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/luvo/prefs.toml
	APIURL     string // overrides api_url from config and environment
}

// LoadConfig reads the config file and applies command line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if u := strings.TrimSpace(opts.APIURL); u != "" {
		cfg.APIURL = u
	}
	return cfg, nil
}

// NewClient builds the backend client described by cfg.
func NewClient(cfg config.Config) (*api.Client, error) {
	client, err := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return client, nil
}

// Run boots the luvo TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Error("prefs unreadable, using defaults", "error", err)
	}

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	terminal, err := host.NewTerminal(host.TerminalOptions{
		InitData:   cfg.Host.InitData,
		UserID:     cfg.Host.UserID,
		Username:   cfg.Host.Username,
		FirstName:  cfg.Host.FirstName,
		Background: cfg.Host.BgColor,
		Output:     os.Stdout,
	})
	if err != nil {
		return err
	}

	store := &state.Store{}
	wf, err := reading.New(reading.Options{
		Client: client,
		Host:   terminal,
		Store:  store,
		Timing: revealTiming(cfg.Reveal),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("init reading workflow: %w", err)
	}
	defer wf.Close()

	wf.Attach()
	logger.Info("luvo started", "api_url", client.BaseURL().String(), "expanded", terminal.Expanded())

	return ui.Run(ui.Options{
		Context:        ctx,
		Workflow:       wf,
		Daily:          client,
		ThemeName:      userPrefs.Theme,
		HostBackground: terminal.ThemeBackground(),
		PrefsPath:      opts.PrefsPath,
		LastSpread:     userPrefs.LastSpread,
		AltScreen:      terminal.Expanded(),
		Logger:         logger,
	})
}

func revealTiming(c config.RevealConfig) reveal.Timing {
	return reveal.Timing{
		Initial:  c.InitialDelay,
		Interval: c.CardInterval,
		Final:    c.InterpretationDelay,
	}
}
