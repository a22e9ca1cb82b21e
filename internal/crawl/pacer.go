// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"math/rand"
	"time"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Pacer enforces the delay after every request and every paper: a fixed
// base plus up to JitterFraction of the base at random.
type Pacer struct {
	base   time.Duration
	jitter float64
	rand   func() float64
}

// NewPacer returns a Pacer for cfg.
func NewPacer(cfg types.PacingConfig) *Pacer {
	return &Pacer{base: cfg.DelayBase, jitter: cfg.JitterFraction, rand: rand.Float64}
}

// Delay returns the next pause length.
func (p *Pacer) Delay() time.Duration {
	if p.base <= 0 {
		return 0
	}
	return p.base + time.Duration(p.rand()*p.jitter*float64(p.base))
}

// Wait sleeps for the next delay or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
