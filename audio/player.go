// Package audio plays alarm tones through whatever command-line player the
// machine has, falling back to the system beep.
package audio

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"bsid.es/despertador"
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// minLoopPeriod keeps a failing or very short track from spinning.
const minLoopPeriod = time.Second

// Player loops a single track until stopped.
type Player struct {
	command []string
	logger  *zap.Logger

	// playOnce plays path once, returning early if ctx is done.
	playOnce func(ctx context.Context, path string) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ despertador.Player = (*Player)(nil)

// NewPlayer returns a player that runs command for every loop iteration. An
// empty command means DetectCommand; if nothing is detected either, the
// player beeps.
func NewPlayer(command []string, logger *zap.Logger) *Player {
	if len(command) == 0 {
		command = DetectCommand()
	}
	p := &Player{
		command: command,
		logger:  logger,
	}
	if len(command) == 0 {
		logger.Warn("No audio player found, alarm will beep")
		p.playOnce = beep
	} else {
		logger.Debug("Using audio player", zap.Strings("command", command))
		p.playOnce = p.runCommand
	}
	return p
}

// Play starts looping path in the background, replacing whatever was
// playing.
func (p *Player) Play(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, path, p.done)
	return nil
}

// Stop halts playback and waits for the player to exit.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	return nil
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Player) stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Player) loop(ctx context.Context, path string, done chan struct{}) {
	defer close(done)
	for {
		start := time.Now()
		if err := p.playOnce(ctx, path); err != nil && ctx.Err() == nil {
			p.logger.Warn("Failed to play alarm tone",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		wait := minLoopPeriod - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (p *Player) runCommand(ctx context.Context, path string) error {
	argv := expand(p.command, path)
	return exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
}

func beep(context.Context, string) error {
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}
