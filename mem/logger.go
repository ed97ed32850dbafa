package mem

import (
	"context"

	"bsid.es/despertador"
	"go.uber.org/zap"
)

// NoticeLogger logs every notice published by an alarm clock.
type NoticeLogger struct {
	clock  despertador.AlarmClock
	logger *zap.Logger

	sub    despertador.Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

func NewNoticeLogger(clock despertador.AlarmClock, logger *zap.Logger) *NoticeLogger {
	return &NoticeLogger{
		clock:  clock,
		logger: logger,
	}
}

func (l *NoticeLogger) Run(ctx context.Context) error {
	l.sub = l.clock.Subscribe(ctx)
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.run(ctx)
	return nil
}

func (l *NoticeLogger) Interrupt() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *NoticeLogger) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.sub.Close()
			return

		case n, ok := <-l.sub.C():
			if !ok {
				l.logger.Debug("Notice subscription dropped, subscribing again")
				l.sub = l.clock.Subscribe(ctx)
				continue
			}
			l.logger.Info("Alarm "+string(n.Kind),
				zap.String("session", n.Session),
				zap.Time("at", n.At),
				zap.Time("target", n.Target),
				zap.String("tone", n.Tone),
			)
		}
	}
}
