package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"bsid.es/despertador"
	"bsid.es/despertador/config"
)

type TonesCmd struct{}

func (TonesCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	return printTones(os.Stdout, cfg.ToneLibrary(), cfg.Tones.Default)
}

func printTones(w io.Writer, lib *despertador.ToneLibrary, def string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TONE\tSTATUS\tPATH")
	for _, t := range lib.Available() {
		name := t.Name
		if name == def {
			name += " (default)"
		}
		status := "ok"
		if !t.Present {
			status = "missing"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, status, t.Path)
	}
	return tw.Flush()
}
