package main

import (
	"context"
	"fmt"
	"time"

	"bsid.es/despertador"
	"bsid.es/despertador/audio"
	"bsid.es/despertador/config"
	"bsid.es/despertador/desktop"
	"bsid.es/despertador/logger"
	"bsid.es/despertador/mem"
	asqlite "bsid.es/despertador/sqlite"
	"go.uber.org/zap"
)

type runner interface {
	Run(context.Context) error
	Interrupt() error
}

// app wires the alarm clock and everything listening to it.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	clock   *mem.AlarmClock
	journal *asqlite.Journal

	runners []runner
}

// newApp builds the application from the global flags. With screen set,
// logs only go to the configured log file so they don't draw over the UI.
func newApp(g *Globals, screen bool) (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Verbose {
		cfg.Log.Level = "debug"
	}

	log := zap.NewNop()
	if !screen || cfg.Log.File != "" {
		if log, err = logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File); err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	a := &app{cfg: cfg, log: log}
	a.clock = mem.NewAlarmClock(cfg.ToneLibrary(), audio.NewPlayer(cfg.Player.Command, log.Named("audio")))
	a.clock.Logger = log.Named("clock")

	if cfg.History != "" {
		if a.journal, err = asqlite.OpenJournal(cfg.History); err != nil {
			return nil, err
		}
		a.clock.Journal = a.journal
	}

	a.runners = append(a.runners, a.clock, mem.NewNoticeLogger(a.clock, log.Named("notice")))
	if cfg.Notify {
		a.runners = append(a.runners, desktop.NewNotifier(a.clock, log.Named("desktop")))
	}
	return a, nil
}

func (a *app) start(ctx context.Context) error {
	for _, r := range a.runners {
		if err := r.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// close silences the alarm and tears everything down.
func (a *app) close() {
	if err := a.clock.Stop(context.Background()); err != nil {
		a.log.Warn("Failed to stop alarm", zap.Error(err))
	}
	for i := len(a.runners) - 1; i >= 0; i-- {
		a.runners[i].Interrupt()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.Warn("Failed to close history", zap.Error(err))
		}
	}
	a.log.Sync()
}

// alarm builds the alarm to arm, taking unset values from the configuration.
func (a *app) alarm(hour, minute int, tone string, snooze int) despertador.Alarm {
	if tone == "" {
		tone = a.cfg.Tones.Default
	}
	d := a.cfg.SnoozeDuration()
	if snooze != 0 {
		d = time.Duration(snooze) * time.Minute
	}
	return despertador.Alarm{Hour: hour, Minute: minute, Tone: tone, Snooze: d}
}
