package http

import "golang.org/x/time/rate"

// eventLimiter throttles inbound events on one connection. A nil limiter
// allows everything.
type eventLimiter struct {
	limiter *rate.Limiter
}

func newEventLimiter(perSecond float64, burst int) *eventLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = max(1, int(perSecond))
	}
	return &eventLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *eventLimiter) allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}
