package engine

import "time"

// Pacer holds each frame to a minimum duration by sleeping for the rest of it.
type Pacer struct {
	Interval time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer paces frames to interval. A zero interval never sleeps.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{Interval: interval, now: time.Now, sleep: time.Sleep}
}

// Wait blocks until Interval has passed since frameStart and returns how
// long it slept.
func (p *Pacer) Wait(frameStart time.Time) time.Duration {
	if p.Interval <= 0 {
		return 0
	}
	remaining := p.Interval - p.clock().Sub(frameStart)
	if remaining <= 0 {
		return 0
	}
	if p.sleep == nil {
		time.Sleep(remaining)
	} else {
		p.sleep(remaining)
	}
	return remaining
}

func (p *Pacer) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}
