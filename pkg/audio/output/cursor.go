// ABOUTME: Read cursor over a fully decoded buffer for callback-driven backends
// ABOUTME: Fills device periods and reports natural completion exactly once
package output

import "sync"

// cursor hands out interleaved samples to an audio callback. Unlike a ring
// buffer it is filled once up front, since a session plays one complete
// buffer.
type cursor struct {
	mu      sync.Mutex
	samples []float32
	pos     int
	done    func()
	fired   bool
	stopped bool
}

// load binds a new buffer and completion callback
func (c *cursor) load(samples []float32, done func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = samples
	c.pos = 0
	c.done = done
	c.fired = false
}

// read copies the next samples into out, zero-filling past the end. Once a
// period is requested after everything was handed out, the completion
// callback is returned so the caller can run it off the audio thread.
func (c *cursor) read(out []float32) (n int, finished func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stopped {
		n = copy(out, c.samples[c.pos:])
		c.pos += n
	}

	for i := n; i < len(out); i++ {
		out[i] = 0
	}

	if n == 0 && c.done != nil && !c.fired && !c.stopped {
		c.fired = true
		finished = c.done
	}
	return n, finished
}

// stop silences the cursor and suppresses any pending completion
func (c *cursor) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.done = nil
}

// Available returns the number of samples not yet handed out
func (c *cursor) Available() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples) - c.pos
}
