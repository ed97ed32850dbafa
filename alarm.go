package despertador

import (
	"strconv"
	"strings"
	"time"
)

const (
	MinSnooze     = 1 * time.Minute
	MaxSnooze     = 30 * time.Minute
	DefaultSnooze = 5 * time.Minute
)

// Alarm describes a one-shot alarm at a wall-clock hour and minute.
type Alarm struct {
	Hour   int           `json:"hour"`
	Minute int           `json:"minute"`
	Tone   string        `json:"tone"`
	Snooze time.Duration `json:"snooze"`
}

func (a *Alarm) Validate() error {
	switch {
	case a.Hour < 0 || a.Hour > 23:
		return Errorf(ErrInvalid, "hour must be between 0 and 23")
	case a.Minute < 0 || a.Minute > 59:
		return Errorf(ErrInvalid, "minute must be between 0 and 59")
	case a.Tone == "":
		return Errorf(ErrInvalid, "no alarm tone selected")
	case a.Snooze < MinSnooze || a.Snooze > MaxSnooze:
		return Errorf(ErrInvalid, "snooze must be between %d and %d minutes",
			int(MinSnooze/time.Minute), int(MaxSnooze/time.Minute))
	case a.Snooze%time.Minute != 0:
		return Errorf(ErrInvalid, "snooze must be a whole number of minutes")
	}
	return nil
}

// Next returns the first time at or after from whose clock reads
// Hour:Minute:00. The result is in from's location.
func (a *Alarm) Next(from time.Time) time.Time {
	y, m, d := from.Date()
	at := time.Date(y, m, d, a.Hour, a.Minute, 0, 0, from.Location())
	if at.Before(from) {
		// Already past today.
		at = time.Date(y, m, d+1, a.Hour, a.Minute, 0, 0, from.Location())
	}
	return at
}

// ParseAlarmTime parses hour and minute as typed by the user.
func ParseAlarmTime(hour, minute string) (h, m int, err error) {
	h, err = strconv.Atoi(strings.TrimSpace(hour))
	if err != nil {
		return 0, 0, Errorf(ErrInvalid, "Please enter valid numbers for hour and minute.")
	}
	m, err = strconv.Atoi(strings.TrimSpace(minute))
	if err != nil {
		return 0, 0, Errorf(ErrInvalid, "Please enter valid numbers for hour and minute.")
	}
	return h, m, nil
}
