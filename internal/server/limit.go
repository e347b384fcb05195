package server

import (
	"net"
	"sync"

	"golang.org/x/time/rate"
)

const (
	limitPerSecond = 20
	limitBurst     = 40
)

// ipLimiter rate-limits snapshot ingress per remote host. The vision client
// posts a few frames a second; anything past the burst is noise.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newIPLimiter() *ipLimiter {
	return &ipLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *ipLimiter) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	l.mu.Lock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(limitPerSecond, limitBurst)
		l.limiters[host] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
