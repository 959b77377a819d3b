package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/reading"
)

func newLiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "live <spread> <question>",
		Short: "Run a live reading over WebSocket",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.ReadingRequest{
				SpreadType: strings.TrimSpace(args[0]),
				Question:   strings.TrimSpace(strings.Join(args[1:], " ")),
				Language:   api.Language,
			}
			if err := reading.ValidateRequest(req); err != nil {
				return err
			}

			return withClient(func(client *api.Client) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				session, err := client.DialLive(ctx)
				if err != nil {
					return err
				}
				defer session.Close()

				if err := session.Shuffle(ctx, func(f api.LiveFrame) { printFrame(out, f) }); err != nil {
					return err
				}
				cards, err := session.Draw(ctx, req.SpreadType, func(f api.LiveFrame) { printFrame(out, f) })
				if err != nil {
					return err
				}
				text, err := session.Interpret(ctx, req.Question, req.SpreadType, cards)
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					// The cards are already drawn; ask the REST endpoint instead.
					faintColor.Fprintf(cmd.ErrOrStderr(), "live interpretation failed (%v), retrying over HTTP\n", err)
					text, err = client.Interpret(ctx, req.Question, req.SpreadType, cards)
					if err != nil {
						return fmt.Errorf("interpret: %w", err)
					}
				}
				printInterpretation(out, text)
				return nil
			})
		},
	}
}

func printInterpretation(w io.Writer, text string) {
	fmt.Fprintln(w)
	titleColor.Fprintln(w, "🔮 Толкование расклада")
	fmt.Fprintln(w, strings.TrimSpace(text))
}
