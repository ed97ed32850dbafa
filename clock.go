package despertador

import (
	"context"
	"time"
)

type State string

const (
	StateIdle    State = "idle"
	StateArmed   State = "armed"
	StateRinging State = "ringing"
)

// AlarmClock holds at most one alarm and drives it through its states.
type AlarmClock interface {
	// Arm validates a and schedules it, replacing any previous alarm. On
	// error the clock state is left untouched.
	Arm(ctx context.Context, a Alarm) (time.Time, error)

	// Snooze silences a ringing alarm and schedules it again after the
	// alarm's snooze duration, counted from now.
	Snooze(ctx context.Context) (time.Time, error)

	// Stop silences and disarms the alarm.
	Stop(ctx context.Context) error

	Status() Status
	Subscribe(ctx context.Context) Subscription
}

type Status struct {
	State   State         `json:"state"`
	Target  time.Time     `json:"target"`
	Tone    string        `json:"tone"`
	Snooze  time.Duration `json:"snooze"`
	Session string        `json:"session"`
}

// Active reports whether the watcher is interested in the alarm.
func (s Status) Active() bool {
	return s.State != StateIdle
}

type Subscription interface {
	// C returns the channel notices are delivered on.
	//
	// If the subscriber can't keep up with the notices coming from this
	// channel, AlarmClock unsubscribes it and closes its channel; in this
	// case, the subscription holder will need to subscribe again.
	C() <-chan Notice

	// Close closes the subscription.
	Close() error
}

type NoticeKind string

const (
	NoticeArmed   NoticeKind = "armed"
	NoticeRinging NoticeKind = "ringing"
	NoticeSnoozed NoticeKind = "snoozed"
	NoticeStopped NoticeKind = "stopped"
)

// Notice reports a state transition of an AlarmClock.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	At      time.Time  `json:"at"`
	Target  time.Time  `json:"target"`
	Tone    string     `json:"tone"`
	Session string     `json:"session"`
}

// Player plays a single track in a loop until stopped.
type Player interface {
	Play(path string) error
	Stop() error
}

// Journal records notices.
type Journal interface {
	Record(ctx context.Context, n Notice) error
}

// NopJournal discards everything.
type NopJournal struct{}

func (NopJournal) Record(context.Context, Notice) error { return nil }
