package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweep periodically removes expired sessions from stores that need it. It
// blocks until ctx is done, so run it in its own goroutine. Stores that do
// not implement Sweeper, or a non-positive interval, make it return at once.
func Sweep(ctx context.Context, store Store, interval time.Duration, log logrus.FieldLogger) {
	sw, ok := store.(Sweeper)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sw.DeleteExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("sweeping expired sessions")
				continue
			}
			if n > 0 {
				log.WithField("removed", n).Debug("swept expired sessions")
			}
		}
	}
}
