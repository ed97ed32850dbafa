package main

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bsid.es/despertador"
	"bsid.es/despertador/mem"
	asqlite "bsid.es/despertador/sqlite"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2012, 12, 21, 7, 30, 15, 0, time.Local)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type nopPlayer struct{}

func (nopPlayer) Play(string) error { return nil }
func (nopPlayer) Stop() error       { return nil }

func TestWait(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tone1.mp3"), nil, 0o644))

	fake := clockwork.NewFakeClockAt(refNow)
	clock := mem.NewAlarmClock(despertador.NewToneLibrary(dir), nopPlayer{})
	clock.Clock = fake

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, clock.Run(ctx))
	defer clock.Interrupt()
	require.NoError(t, fake.BlockUntilContext(ctx, 1))

	in, answer := io.Pipe()
	defer answer.Close()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		alarm := despertador.Alarm{Hour: 7, Minute: 31, Tone: "tone1.mp3", Snooze: 5 * time.Minute}
		done <- wait(ctx, clock, alarm, in, out)
	}()

	waitFor := func(cond func() bool) {
		t.Helper()
		require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond)
	}
	rings := func(n int) func() bool {
		return func() bool { return strings.Count(out.String(), "Wake Up!") == n }
	}

	waitFor(func() bool { return clock.Status().State == despertador.StateArmed })
	fake.Advance(45 * time.Second)
	waitFor(rings(1))

	_, err := io.WriteString(answer, "s\n")
	require.NoError(t, err)
	waitFor(func() bool { return strings.Contains(out.String(), "Snoozed until 07:36") })
	assert.Equal(t, despertador.StateArmed, clock.Status().State)

	fake.Advance(5 * time.Minute)
	waitFor(rings(2))

	_, err = io.WriteString(answer, "\n")
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return")
	}
	assert.Contains(t, out.String(), "Alarm set for 07:31")
	assert.Contains(t, out.String(), "Alarm stopped")
	assert.False(t, clock.Status().Active())
}

func TestWaitMissingTone(t *testing.T) {
	clock := mem.NewAlarmClock(despertador.NewToneLibrary(t.TempDir()), nopPlayer{})
	alarm := despertador.Alarm{Hour: 7, Minute: 31, Tone: "tone1.mp3", Snooze: 5 * time.Minute}

	err := wait(context.Background(), clock, alarm, strings.NewReader(""), io.Discard)
	assert.Equal(t, despertador.ErrNotFound, despertador.ErrorCode(err))
	assert.False(t, clock.Status().Active())
}

func TestPrintTones(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), nil, 0o644))
	lib := despertador.NewToneLibrary(dir, "a.mp3", "b.mp3")

	var buf bytes.Buffer
	require.NoError(t, printTones(&buf, lib, "b.mp3"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^a\.mp3\s+ok\s+`, lines[1])
	assert.Regexp(t, `^b\.mp3 \(default\)\s+missing\s+`, lines[2])
}

func TestPrintHistory(t *testing.T) {
	target := refNow.Add(45 * time.Second)
	entries := []asqlite.Entry{{
		ID: 2,
		Notice: despertador.Notice{
			Kind: despertador.NoticeStopped, At: target.Add(time.Minute), Tone: "tone1.mp3",
			Session: "0123456789abcdef",
		},
	}, {
		ID: 1,
		Notice: despertador.Notice{
			Kind: despertador.NoticeArmed, At: refNow, Target: target, Tone: "tone1.mp3",
			Session: "0123456789abcdef",
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, entries))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^2012-12-21 07:32:00\s+stopped\s+-\s+tone1\.mp3\s+01234567$`, lines[1])
	assert.Regexp(t, `^2012-12-21 07:30:15\s+armed\s+Fri 07:31\s+tone1\.mp3\s+01234567$`, lines[2])
}

func TestHistoryMissingConfig(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "nope.yaml")}
	err := (&HistoryCmd{}).Run(g)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTonesMissingConfig(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "nope.yaml")}
	assert.ErrorIs(t, TonesCmd{}.Run(g), fs.ErrNotExist)
}
