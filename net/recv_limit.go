package net

import (
	"context"
	"sync/atomic"

	"go.uber.org/ratelimit"
	"golang.org/x/time/rate"
)

// RecvLimiter is a token-bucket inbound rate limiter, installed as a Filter
// on a Link to bound how fast a peer may push requests and events at it.
// The limiter itself is swapped atomically so Reload never blocks an
// in-flight Take.
type RecvLimiter struct {
	limiter atomic.Pointer[rate.Limiter]
}

// NewTokenRecvLimiter builds a token-bucket RecvLimiter allowing limit
// messages per second with the given burst.
func NewTokenRecvLimiter(limit int, burst int) *RecvLimiter {
	l := &RecvLimiter{}
	l.limiter.Store(rate.NewLimiter(rate.Limit(limit), burst))
	return l
}

// Take blocks until a token is available.
func (l *RecvLimiter) Take() error {
	return l.limiter.Load().Wait(context.Background())
}

// Reload swaps in a limiter with new parameters, taking effect immediately
// for subsequent Take calls.
func (l *RecvLimiter) Reload(limit int, burst int) {
	l.limiter.Store(rate.NewLimiter(rate.Limit(limit), burst))
}

// Handle implements Filter: it blocks until a token is available, then
// continues the chain, so a slow peer is throttled rather than rejected.
func (l *RecvLimiter) Handle(d *Delivery, next FilterHandleFunc) error {
	if err := l.Take(); err != nil {
		return err
	}
	return next(d)
}

// FunnelRecvLimiter is a leaky-bucket alternative to RecvLimiter, for links
// where a smooth, deterministic send rate matters more than absorbing
// bursts (e.g. the controller's fan-out to many instances on one host
// link).
type FunnelRecvLimiter struct {
	limiter atomic.Pointer[ratelimit.Limiter]
}

// NewFunnelRecvLimiter builds a leaky-bucket limiter allowing limit
// messages per second.
func NewFunnelRecvLimiter(limit int) *FunnelRecvLimiter {
	l := &FunnelRecvLimiter{}
	rl := ratelimit.New(limit)
	l.limiter.Store(&rl)
	return l
}

// Take blocks until the leaky bucket admits the next message.
func (l *FunnelRecvLimiter) Take() {
	_ = (*l.limiter.Load()).Take()
}

// Reload swaps in a limiter with a new rate.
func (l *FunnelRecvLimiter) Reload(limit int) {
	rl := ratelimit.New(limit)
	l.limiter.Store(&rl)
}

// Handle implements Filter.
func (l *FunnelRecvLimiter) Handle(d *Delivery, next FilterHandleFunc) error {
	l.Take()
	return next(d)
}
