package main

import (
	"fmt"
	"os"

	"bsid.es/despertador"
	"github.com/alecthomas/kong"
)

type Globals struct {
	Config  string `short:"c" help:"Configuration file path. Without it, despertador.yaml is read if present."`
	Verbose bool   `short:"v" help:"Enable debug logging."`
}

var cli struct {
	Globals

	Run     RunCmd     `cmd:"" default:"withargs" help:"Open the alarm clock (default)."`
	Set     SetCmd     `cmd:"" help:"Arm an alarm and wait for it in this terminal."`
	Tones   TonesCmd   `cmd:"" help:"List the alarm tones and whether their files exist."`
	History HistoryCmd `cmd:"" help:"Show recorded alarm activity."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("despertador"),
		kong.Description("A terminal alarm clock."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		if despertador.ErrorCode(err) == despertador.ErrInternal {
			fmt.Fprintln(os.Stderr, "despertador:", err)
		} else {
			fmt.Fprintln(os.Stderr, despertador.ErrorDescription(err))
		}
		os.Exit(1)
	}
}
