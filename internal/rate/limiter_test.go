package rate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	lim := New(cfg)
	lim.now = clock.Now
	lim.last = clock.Now()
	return lim, clock
}

func TestLimiter_AllowUpToBurst(t *testing.T) {
	lim, _ := newTestLimiter(Config{RequestsPerSecond: 10, Burst: 5})

	allowed := 0
	for i := 0; i < 10; i++ {
		if lim.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 5, allowed)
}

func TestLimiter_Refill(t *testing.T) {
	lim, clock := newTestLimiter(Config{RequestsPerSecond: 10, Burst: 2})
	for lim.Allow() {
	}

	clock.Advance(100 * time.Millisecond)
	assert.True(t, lim.Allow(), "one token after 1/rate seconds")
	assert.False(t, lim.Allow())
}

func TestLimiter_BurstCap(t *testing.T) {
	lim, clock := newTestLimiter(Config{RequestsPerSecond: 1000, Burst: 3})
	clock.Advance(time.Hour)

	allowed := 0
	for i := 0; i < 10; i++ {
		if lim.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)
}

func TestLimiter_ZeroBurstTreatedAsOne(t *testing.T) {
	lim, _ := newTestLimiter(Config{RequestsPerSecond: 1})
	assert.True(t, lim.Allow())
	assert.False(t, lim.Allow())
}

func TestLimiter_ReserveReportsDelay(t *testing.T) {
	lim, _ := newTestLimiter(Config{RequestsPerSecond: 4, Burst: 1})
	require.True(t, lim.Allow())

	delay, ok := lim.reserve()
	assert.False(t, ok)
	assert.Equal(t, 250*time.Millisecond, delay)
}

func TestLimiter_Wait_Success(t *testing.T) {
	lim := New(Config{RequestsPerSecond: 100, Burst: 1})
	lim.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, lim.Wait(ctx))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestLimiter_Wait_ContextCanceled(t *testing.T) {
	lim := New(Config{RequestsPerSecond: 1, Burst: 1})
	lim.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, lim.Wait(ctx), context.DeadlineExceeded)
}

func TestManager_GetLimiter(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 10, Burst: 5})

	l1 := mgr.GetLimiter("client-a")
	l2 := mgr.GetLimiter("client-a")
	l3 := mgr.GetLimiter("client-b")

	assert.Same(t, l1, l2, "same key should return the same limiter")
	assert.NotSame(t, l1, l3, "different keys get independent limiters")
}

func TestManager_ConcurrentGetLimiter(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 10, Burst: 5})

	var wg sync.WaitGroup
	limiters := make([]*Limiter, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			limiters[idx] = mgr.GetLimiter("shared-key")
		}(i)
	}
	wg.Wait()

	for i := 1; i < 20; i++ {
		assert.Same(t, limiters[0], limiters[i])
	}
}

func TestManager_Wait(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 100, Burst: 5})
	require.NoError(t, mgr.Wait(context.Background(), "client-x"))
}
