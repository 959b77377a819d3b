package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luvo-tarot/luvo/internal/app"
	"github.com/luvo-tarot/luvo/internal/config"
)

var opts app.Options

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "luvo: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "luvo: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "luvo",
		Short:         "Tarot readings in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/luvo/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "prefs file path (default ~/.config/luvo/prefs.toml)")
	flags.StringVar(&opts.APIURL, "api-url", "", "backend base URL, overrides config and API_URL")

	rootCommand.AddCommand(
		newSpreadsCommand(),
		newDailyCommand(),
		newDeckCommand(),
		newCardCommand(),
		newReadingCommand(),
		newLiveCommand(),
	)
	return rootCommand
}
