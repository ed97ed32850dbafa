// Package desktop raises operating system notifications for ringing
// alarms. Everything here is best effort.
package desktop

import (
	"context"

	"bsid.es/despertador"
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

const title = "⏰ Alarm"

// Notifier shows a desktop notification whenever the alarm rings.
type Notifier struct {
	clock  despertador.AlarmClock
	logger *zap.Logger

	// notify is beeep.Notify, replaced in tests.
	notify func(title, message string, icon any) error

	sub    despertador.Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

func NewNotifier(clock despertador.AlarmClock, logger *zap.Logger) *Notifier {
	return &Notifier{
		clock:  clock,
		logger: logger,
		notify: beeep.Notify,
	}
}

func (n *Notifier) Run(ctx context.Context) error {
	n.sub = n.clock.Subscribe(ctx)
	ctx, n.cancel = context.WithCancel(ctx)
	n.done = make(chan struct{})
	go n.run(ctx)
	return nil
}

func (n *Notifier) Interrupt() error {
	n.cancel()
	<-n.done
	return nil
}

func (n *Notifier) run(ctx context.Context) {
	defer close(n.done)
	for {
		select {
		case <-ctx.Done():
			n.sub.Close()
			return

		case notice, ok := <-n.sub.C():
			if !ok {
				n.sub = n.clock.Subscribe(ctx)
				continue
			}
			if notice.Kind != despertador.NoticeRinging {
				continue
			}
			msg := "🔔 Wake Up! It's " + notice.Target.Format("15:04") + "."
			if err := n.notify(title, msg, ""); err != nil {
				n.logger.Debug("Failed to show desktop notification", zap.Error(err))
			}
		}
	}
}
