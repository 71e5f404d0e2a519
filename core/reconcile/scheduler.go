package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs a function immediately and then every interval until
// stopped. It can be started again after Stop.
type Scheduler struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	logger *zap.Logger
}

// NewScheduler returns an idle scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger}
}

// Start launches fn on a fixed-rate loop, stopping any previous loop first.
// fn receives a context detached from parent's cancellation so a running
// invocation completes even while Stop is waiting for it.
func (s *Scheduler) Start(parent context.Context, interval time.Duration, fn func(context.Context)) {
	s.Stop()

	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.run(ctx, interval, fn, done)
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, fn func(context.Context), done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.invoke(ctx, fn)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A stop may race with the tick; prefer stopping.
			if ctx.Err() != nil {
				return
			}
			s.invoke(ctx, fn)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduled pass panicked", zap.Any("panic", r))
		}
	}()
	fn(context.WithoutCancel(ctx))
}

// Stop cancels the loop and waits for an in-flight invocation to return.
// Stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
