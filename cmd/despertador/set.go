package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bsid.es/despertador"
)

type SetCmd struct {
	Hour   string `arg:"" help:"Alarm hour (0-23)."`
	Minute string `arg:"" help:"Alarm minute (0-59)."`
	Tone   string `help:"Alarm tone, one of the configured tones."`
	Snooze int    `help:"Snooze duration in minutes (1-30)."`
}

func (s *SetCmd) Run(g *Globals) error {
	hour, minute, err := despertador.ParseAlarmTime(s.Hour, s.Minute)
	if err != nil {
		return err
	}

	a, err := newApp(g, false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.start(ctx); err != nil {
		return err
	}

	return wait(ctx, a.clock, a.alarm(hour, minute, s.Tone, s.Snooze), os.Stdin, os.Stdout)
}

// wait arms alarm and then answers the ringing alarm with the lines read
// from in: "s" snoozes, anything else stops. It returns once the alarm is
// stopped or ctx is done.
func wait(ctx context.Context, clock despertador.AlarmClock, alarm despertador.Alarm, in io.Reader, out io.Writer) error {
	sub := clock.Subscribe(ctx)
	defer func() { sub.Close() }()

	target, err := clock.Arm(ctx, alarm)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Alarm set for %s\n", target.Format("15:04"))

	lines := scanLines(in)
	for {
		select {
		case <-ctx.Done():
			return clock.Stop(context.Background())

		case n, ok := <-sub.C():
			if !ok {
				sub = clock.Subscribe(ctx)
				continue
			}
			if n.Kind == despertador.NoticeRinging {
				fmt.Fprintln(out, "🔔 Wake Up! Type s to snooze, or press enter to stop.")
			}

		case line, ok := <-lines:
			if !ok {
				// Nobody left to answer; keep waiting for a signal.
				lines = nil
				continue
			}
			if clock.Status().State != despertador.StateRinging {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(line), "s") {
				target, err := clock.Snooze(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Snoozed until %s\n", target.Format("15:04"))
				continue
			}
			if err := clock.Stop(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Alarm stopped")
			return nil
		}
	}
}

func scanLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
