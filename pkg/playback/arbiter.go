// ABOUTME: Process-wide playback exclusivity
// ABOUTME: Stops the previous controller when another one starts playing
package playback

import "sync"

// Arbiter lets at most one of its controllers play at a time
type Arbiter struct {
	mu     sync.Mutex
	holder *Controller
}

// NewArbiter creates an arbiter with no active holder
func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// claim makes c the holder and returns the previous holder, which the
// caller must stop once it holds no controller lock
func (a *Arbiter) claim(c *Controller) *Controller {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.holder
	a.holder = c
	if prev == c {
		return nil
	}
	return prev
}

func (a *Arbiter) release(c *Controller) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.holder == c {
		a.holder = nil
	}
}

// Holder returns the controller currently allowed to play, or nil
func (a *Arbiter) Holder() *Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holder
}
