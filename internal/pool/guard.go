package pool

import "sync"

// guard is the per-pool reentrancy lock. A second entry while a call is in
// progress, whether reentrant or from another goroutine, is rejected.
type guard struct {
	mu      sync.Mutex
	entered bool
}

func (g *guard) enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.entered {
		return ErrReentrancyGuarded
	}
	g.entered = true
	return nil
}

func (g *guard) exit() {
	g.mu.Lock()
	g.entered = false
	g.mu.Unlock()
}
