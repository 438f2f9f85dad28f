package sketchpad

import "time"

// throttle admits at most one sample per interval, measured on the event
// clock. time.Time values from time.Now carry a monotonic reading, so Sub is
// immune to wall-clock jumps.
type throttle struct {
	interval time.Duration
	last     time.Time
	primed   bool
}

func newThrottle(hz float64) throttle {
	if hz <= 0 {
		return throttle{}
	}
	return throttle{interval: time.Duration(float64(time.Second) / hz)}
}

// allow reports whether a sample at now may be processed, and records it if
// so. Samples with a clock running backwards are admitted and restart the
// interval.
func (t *throttle) allow(now time.Time) bool {
	if !t.primed || t.interval == 0 {
		t.last, t.primed = now, true
		return true
	}
	elapsed := now.Sub(t.last)
	if elapsed >= t.interval || elapsed < 0 {
		t.last = now
		return true
	}
	return false
}

// reset forgets the last sample so the next one is admitted.
func (t *throttle) reset() {
	t.primed = false
}
