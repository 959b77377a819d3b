package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/app"
)

// withClient loads the config and runs fn with a backend client.
func withClient(fn func(*api.Client) error) error {
	cfg, err := app.LoadConfig(opts)
	if err != nil {
		return err
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func newSpreadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spreads",
		Short: "List the available spreads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *api.Client) error {
				spreads, err := client.FetchSpreads(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch spreads: %w", err)
				}
				printSpreads(cmd.OutOrStdout(), spreads)
				return nil
			})
		},
	}
}

func newDailyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show the card of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *api.Client) error {
				daily, err := client.FetchDaily(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch daily card: %w", err)
				}
				printDaily(cmd.OutOrStdout(), daily)
				return nil
			})
		},
	}
}

func newDeckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deck",
		Short: "List all 78 cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *api.Client) error {
				deck, err := client.FetchDeck(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch deck: %w", err)
				}
				printDeck(cmd.OutOrStdout(), deck)
				return nil
			})
		},
	}
}

func newCardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "card <id>",
		Short: "Show one card of the deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			return withClient(func(client *api.Client) error {
				card, err := client.FetchCard(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("fetch card %d: %w", id, err)
				}
				printCard(cmd.OutOrStdout(), *card, client.CardImageURL(card.Image))
				return nil
			})
		},
	}
}

func newReadingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reading <session-id>",
		Short: "Show a stored reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *api.Client) error {
				r, err := client.FetchReading(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch reading: %w", err)
				}
				printReading(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
}
