package reconcile

import "sync"

var closedIdle = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// inflight counts issued remote calls. settled returns a channel that is closed
// once the count drops to zero, so waiters can select on it alongside a
// context without spawning a goroutine.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (t *inflight) add() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
}

func (t *inflight) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		panic("reconcile: inflight.done without add")
	}
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

func (t *inflight) settled() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		return closedIdle
	}
	return t.idle
}
