package app

import (
	"context"
	"errors"
)

// StartScheduler joins the network and then runs the scheduler loop on a
// background goroutine. It returns immediately; the channel receives the
// loop's result once.
func StartScheduler(ctx context.Context, s *Sign) <-chan error {
	done := make(chan error, 1)
	go func() {
		if err := s.Monitor.Start(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			done <- err
			return
		}
		done <- s.Scheduler.Run(ctx)
	}()
	return done
}
