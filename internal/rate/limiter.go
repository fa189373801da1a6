package rate

import (
	"context"
	"sync"
	"time"
)

// Config defines the outbound request budget for one LinxPay account.
type Config struct {
	RequestsPerSecond int
	Burst             int
}

// Limiter is a token bucket. The bucket starts full.
type Limiter struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64
	burst  float64
	now    func() time.Time
}

// New creates a limiter. A non-positive burst is treated as 1.
func New(cfg Config) *Limiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		tokens: float64(burst),
		last:   time.Now(),
		rate:   float64(cfg.RequestsPerSecond),
		burst:  float64(burst),
		now:    time.Now,
	}
}

// Allow takes a token if one is available.
func (l *Limiter) Allow() bool {
	_, ok := l.reserve()
	return ok
}

// reserve takes a token, or reports how long until the next one is available.
func (l *Limiter) reserve() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now

	if l.tokens >= 1 {
		l.tokens--
		return 0, true
	}
	if l.rate <= 0 {
		return 50 * time.Millisecond, false
	}
	return time.Duration((1 - l.tokens) / l.rate * float64(time.Second)), false
}

// Wait blocks until a token is taken or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		delay, ok := l.reserve()
		if ok {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Manager holds one limiter per key (LinxPay client_id).
type Manager struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	defaults Config
}

func NewManager(defaults Config) *Manager {
	return &Manager{
		limiters: make(map[string]*Limiter),
		defaults: defaults,
	}
}

func (m *Manager) GetLimiter(key string) *Limiter {
	m.mu.RLock()
	if lim, ok := m.limiters[key]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if lim, ok := m.limiters[key]; ok {
		return lim
	}
	lim := New(m.defaults)
	m.limiters[key] = lim
	return lim
}

// Wait blocks until the limiter for key admits one request.
func (m *Manager) Wait(ctx context.Context, key string) error {
	return m.GetLimiter(key).Wait(ctx)
}
