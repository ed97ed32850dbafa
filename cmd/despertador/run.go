package main

import (
	"context"

	"bsid.es/despertador/tui"
	tea "github.com/charmbracelet/bubbletea"
)

type RunCmd struct {
	Hour   string `help:"Prefill the alarm hour (0-23)."`
	Minute string `help:"Prefill the alarm minute (0-59)."`
	Tone   string `help:"Preselect the alarm tone."`
	Snooze int    `help:"Preselect the snooze duration in minutes (1-30)."`
	Arm    bool   `help:"Arm the alarm right away."`
}

func (r *RunCmd) Run(g *Globals) error {
	a, err := newApp(g, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	if err := a.start(ctx); err != nil {
		return err
	}

	opts := tui.Options{
		Hour:   r.Hour,
		Minute: r.Minute,
		Tones:  a.cfg.Tones.Names,
		Tone:   r.Tone,
		Snooze: r.Snooze,
	}
	if opts.Tone == "" {
		opts.Tone = a.cfg.Tones.Default
	}
	if opts.Snooze == 0 {
		opts.Snooze = a.cfg.Snooze
	}

	p := tea.NewProgram(tui.New(ctx, a.clock, opts), tea.WithAltScreen())
	if r.Arm {
		go p.Send(tui.Arm())
	}
	_, err = p.Run()
	return err
}
