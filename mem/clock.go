package mem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bsid.es/despertador"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// PollInterval is how often the watcher compares the current time with the
// alarm target.
const PollInterval = time.Second

// AlarmClock is an in-memory despertador.AlarmClock. Its state lives for as
// long as the process does.
type AlarmClock struct {
	Clock   clockwork.Clock
	Journal despertador.Journal
	Logger  *zap.Logger

	tones  *despertador.ToneLibrary
	player despertador.Player

	mu       sync.Mutex
	status   despertador.Status
	tonePath string
	subs     map[*Subscription]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

func NewAlarmClock(tones *despertador.ToneLibrary, player despertador.Player) *AlarmClock {
	return &AlarmClock{
		Clock:   clockwork.NewRealClock(),
		Journal: despertador.NopJournal{},
		Logger:  zap.NewNop(),
		tones:   tones,
		player:  player,
		status:  despertador.Status{State: despertador.StateIdle},
		subs:    make(map[*Subscription]struct{}),
		cancel:  func() {},
	}
}

var _ despertador.AlarmClock = (*AlarmClock)(nil)

// Run starts the watcher. It keeps polling until ctx is done or Interrupt
// is called.
func (c *AlarmClock) Run(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx)
	return nil
}

// Interrupt stops the watcher and waits for it to return. A ringing alarm
// keeps ringing; call Stop to silence it.
func (c *AlarmClock) Interrupt() error {
	c.cancel()
	if c.done != nil {
		<-c.done
	}
	return nil
}

func (c *AlarmClock) Arm(ctx context.Context, a despertador.Alarm) (time.Time, error) {
	if err := a.Validate(); err != nil {
		return time.Time{}, err
	}
	path, err := c.tones.Resolve(a.Tone)
	if err != nil {
		return time.Time{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.State == despertador.StateRinging {
		c.stopPlayer()
	}
	now := c.Clock.Now()
	c.status = despertador.Status{
		State:   despertador.StateArmed,
		Target:  a.Next(now),
		Tone:    a.Tone,
		Snooze:  a.Snooze,
		Session: uuid.NewString(),
	}
	c.tonePath = path
	c.notify(ctx, despertador.NoticeArmed, now)
	return c.status.Target, nil
}

func (c *AlarmClock) Snooze(ctx context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.State != despertador.StateRinging {
		return time.Time{}, despertador.Errorf(despertador.ErrConflict, "alarm is not ringing")
	}
	if err := c.stopPlayer(); err != nil {
		return time.Time{}, err
	}
	now := c.Clock.Now()
	c.status.Target = now.Add(c.status.Snooze)
	c.status.State = despertador.StateArmed
	c.notify(ctx, despertador.NoticeSnoozed, now)
	return c.status.Target, nil
}

func (c *AlarmClock) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.stopPlayer()
	if c.status.State == despertador.StateIdle {
		return err
	}
	c.status.State = despertador.StateIdle
	c.notify(ctx, despertador.NoticeStopped, c.Clock.Now())
	c.status = despertador.Status{State: despertador.StateIdle}
	c.tonePath = ""
	return err
}

func (c *AlarmClock) Status() despertador.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

const subBufferSize = 16

func (c *AlarmClock) Subscribe(ctx context.Context) despertador.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := &Subscription{
		clock: c,
		c:     make(chan despertador.Notice, subBufferSize),
	}
	c.subs[sub] = struct{}{}
	return sub
}

func (c *AlarmClock) run(ctx context.Context) {
	defer close(c.done)

	ticker := c.Clock.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		c.check(ctx)
		select {
		case <-ctx.Done(): // Operation was canceled.
			return
		case <-ticker.Chan():
		}
	}
}

// check rings the alarm if it is armed and its target has been reached.
func (c *AlarmClock) check(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.State != despertador.StateArmed {
		return
	}
	now := c.Clock.Now()
	if now.Before(c.status.Target) {
		return
	}

	c.status.State = despertador.StateRinging
	if err := c.player.Play(c.tonePath); err != nil {
		// Still ringing; the user has to be able to snooze or stop.
		c.Logger.Error("Failed to play alarm tone",
			zap.String("tone", c.status.Tone),
			zap.Error(err),
		)
	}
	c.notify(ctx, despertador.NoticeRinging, now)
}

func (c *AlarmClock) stopPlayer() error {
	if err := c.player.Stop(); err != nil {
		return fmt.Errorf("stop alarm tone: %w", err)
	}
	return nil
}

// notify must be called with c.mu held.
func (c *AlarmClock) notify(ctx context.Context, kind despertador.NoticeKind, at time.Time) {
	n := despertador.Notice{
		Kind:    kind,
		At:      at,
		Target:  c.status.Target,
		Tone:    c.status.Tone,
		Session: c.status.Session,
	}
	for sub := range c.subs {
		select {
		case sub.c <- n:
		default:
			// Subscriber is not keeping up. Drop it so it notices the
			// closed channel and subscribes again.
			sub.close()
		}
	}
	if err := c.Journal.Record(ctx, n); err != nil {
		c.Logger.Warn("Failed to record alarm notice",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

var _ despertador.Subscription = (*Subscription)(nil)

type Subscription struct {
	clock *AlarmClock
	c     chan despertador.Notice
	once  sync.Once
}

func (sub *Subscription) C() <-chan despertador.Notice {
	return sub.c
}

func (sub *Subscription) Close() error {
	sub.clock.mu.Lock()
	defer sub.clock.mu.Unlock()
	sub.close()
	return nil
}

func (sub *Subscription) close() {
	sub.once.Do(func() {
		close(sub.c)
	})
	delete(sub.clock.subs, sub)
}
