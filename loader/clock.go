package loader

import (
	"context"
	"time"
)

// Clock provides the settle pauses between page interactions.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on the wall clock and wakes early if ctx ends.
var RealClock Clock = realClock{}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InstantClock records requested pauses without sleeping.
type InstantClock struct {
	Slept []time.Duration
}

func (c *InstantClock) Sleep(ctx context.Context, d time.Duration) error {
	c.Slept = append(c.Slept, d)
	return ctx.Err()
}
