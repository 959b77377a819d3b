package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/luvo-tarot/luvo/internal/api"
)

const reversedLabel = "Перевернутая"

var (
	titleColor    = color.New(color.FgMagenta, color.Bold)
	nameColor     = color.New(color.Bold)
	faintColor    = color.New(color.Faint)
	reversedColor = color.New(color.FgRed)
	accentColor   = color.New(color.FgCyan)
)

func printSpreads(w io.Writer, spreads []api.Spread) {
	if len(spreads) == 0 {
		faintColor.Fprintln(w, "Расклады недоступны")
		return
	}
	for _, s := range spreads {
		nameColor.Fprintf(w, "%s", s.Name)
		faintColor.Fprintf(w, "  (%s", s.ID)
		if s.Cards > 0 {
			faintColor.Fprintf(w, ", %d", s.Cards)
		}
		faintColor.Fprintln(w, ")")
		if d := strings.TrimSpace(s.Description); d != "" {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func printDaily(w io.Writer, daily *api.DailyCard) {
	titleColor.Fprintln(w, "✨ Карта дня")
	if daily == nil {
		return
	}
	if daily.Date != "" {
		faintColor.Fprintln(w, daily.Date)
	}
	printCard(w, daily.Card, "")
	if msg := strings.TrimSpace(daily.Message); msg != "" {
		fmt.Fprintln(w)
		accentColor.Fprintln(w, msg)
	}
}

func printDeck(w io.Writer, deck []api.Card) {
	for _, c := range deck {
		arcana := "старший аркан"
		if !c.IsMajor() {
			arcana = strings.TrimSpace(c.SuitRU)
			if arcana == "" {
				arcana = c.Suit
			}
		}
		fmt.Fprintf(w, "%3d  ", c.ID)
		nameColor.Fprint(w, c.DisplayName())
		faintColor.Fprintf(w, "  %s\n", arcana)
	}
}

func printCard(w io.Writer, c api.Card, imageURL string) {
	nameColor.Fprint(w, c.DisplayName())
	if c.NameRU != "" && c.Name != "" && c.Name != c.NameRU {
		faintColor.Fprintf(w, " (%s)", c.Name)
	}
	if c.Reversed {
		fmt.Fprint(w, "  ")
		reversedColor.Fprint(w, reversedLabel)
	}
	fmt.Fprintln(w)
	if p := strings.TrimSpace(c.Position); p != "" {
		faintColor.Fprintln(w, p)
	}
	if len(c.Keywords) > 0 {
		accentColor.Fprintln(w, strings.Join(c.Keywords, " · "))
	}
	if m := strings.TrimSpace(c.Meaning); m != "" {
		fmt.Fprintln(w, m)
	}
	if imageURL != "" {
		faintColor.Fprintln(w, imageURL)
	}
}

func printReading(w io.Writer, r *api.Reading) {
	if r == nil {
		return
	}
	titleColor.Fprintln(w, r.Question)
	meta := r.SpreadType
	if ts := r.ParsedTime(); !ts.IsZero() {
		meta += " · " + ts.Local().Format("02.01.2006 15:04")
	}
	faintColor.Fprintln(w, meta)
	fmt.Fprintln(w)
	for i, c := range r.Cards {
		fmt.Fprintf(w, "%d. ", i+1)
		printCard(w, c, "")
		fmt.Fprintln(w)
	}
	printInterpretation(w, r.Interpretation)
}

// printFrame reports one live-reading frame.
func printFrame(w io.Writer, f api.LiveFrame) {
	switch f.Status {
	case api.LiveShuffling:
		faintColor.Fprintf(w, "Тасую колоду... %d%%\n", f.Progress)
	case api.LiveReady:
		accentColor.Fprintln(w, "Колода готова")
	case api.LiveCardDrawn:
		if f.Card == nil {
			return
		}
		fmt.Fprintf(w, "%d. ", f.Index+1)
		printCard(w, *f.Card, "")
	case api.LiveComplete:
		accentColor.Fprintf(w, "Вытянуто карт: %d\n", len(f.Cards))
	}
}
