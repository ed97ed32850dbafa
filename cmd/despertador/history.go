package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"bsid.es/despertador"
	"bsid.es/despertador/config"
	asqlite "bsid.es/despertador/sqlite"
)

type HistoryCmd struct {
	Limit int `short:"n" help:"Show at most this many entries (0 for all)." default:"20"`
}

func (h *HistoryCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	if cfg.History == "" {
		path := g.Config
		if path == "" {
			path = config.DefaultPath
		}
		return despertador.Errorf(despertador.ErrInvalid, "no history database configured; set history in %s or DESPERTADOR_HISTORY", path)
	}

	journal, err := asqlite.OpenJournal(cfg.History)
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.List(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	return printHistory(os.Stdout, entries)
}

func printHistory(w io.Writer, entries []asqlite.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tEVENT\tALARM\tTONE\tSESSION")
	for _, e := range entries {
		target := "-"
		if !e.Target.IsZero() {
			target = e.Target.Local().Format("Mon 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format("2006-01-02 15:04:05"), e.Kind, target, e.Tone, shortSession(e.Session))
	}
	return tw.Flush()
}

func shortSession(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
