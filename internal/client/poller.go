package client

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Poller calls Fetch every Interval until its context ends. After consecutive failures
// the delay doubles, up to MaxBackoff; one success restores Interval.
type Poller struct {
	Interval   time.Duration
	MaxBackoff time.Duration
	Fetch      func(ctx context.Context) error

	after func(time.Duration) <-chan time.Time
}

// Delay returns the wait after the given number of consecutive failures.
func (p *Poller) Delay(failures int) time.Duration {
	d := p.Interval
	for i := 0; i < failures; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return d
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	if p.Fetch == nil || p.Interval <= 0 {
		return errors.New("poller: fetch and a positive interval are required")
	}
	after := p.after
	if after == nil {
		after = time.After
	}

	failures := 0
	for {
		if err := p.Fetch(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			log.WithError(err).WithFields(log.Fields{
				"failures": failures,
				"retry_in": p.Delay(failures),
			}).Warn("Poll failed")
		} else {
			failures = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-after(p.Delay(failures)):
		}
	}
}
