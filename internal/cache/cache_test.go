package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader returns successive values and counts calls.
type countingLoader struct {
	mu       sync.Mutex
	calls    int32
	value    int
	failWith error
}

func (l *countingLoader) load(context.Context) (int, error) {
	atomic.AddInt32(&l.calls, 1)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return 0, l.failWith
	}
	l.value++
	return l.value, nil
}

func (l *countingLoader) callCount() int32 {
	return atomic.LoadInt32(&l.calls)
}

func TestGet_FreshValueServedWithoutReload(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	loader := &countingLoader{}

	first, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, second)
	assert.EqualValues(t, 1, loader.callCount())
}

func TestGet_KeysAreIndependent(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	a := &countingLoader{}
	b := &countingLoader{}

	_, err := c.Get(context.Background(), "a", a.load)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "b", b.load)
	require.NoError(t, err)

	assert.EqualValues(t, 1, a.callCount())
	assert.EqualValues(t, 1, b.callCount())
}

func TestGet_LoaderErrorPropagates(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	loader := &countingLoader{failWith: errors.New("database down")}

	_, err := c.Get(context.Background(), "k", loader.load)
	assert.Error(t, err)
}

func TestInvalidate_NextGetReloads(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	loader := &countingLoader{}

	first, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	c.Invalidate("k")

	second, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, second)
	assert.EqualValues(t, 2, loader.callCount())
}

func TestGet_StaleValueServedWhileRevalidating(t *testing.T) {
	c := New[int](time.Millisecond, time.Minute)
	loader := &countingLoader{}

	first, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	// Let the value turn stale but stay within the serve-stale window.
	time.Sleep(5 * time.Millisecond)

	stale, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, stale, "stale read must serve the old value immediately")

	// The background revalidation eventually installs the new value.
	require.Eventually(t, func() bool {
		v, err := c.Get(context.Background(), "k", loader.load)
		return err == nil && v == 2
	}, time.Second, 5*time.Millisecond)
}

func TestGet_SingleRevalidationForConcurrentStaleReads(t *testing.T) {
	c := New[int](time.Millisecond, time.Minute)
	slow := &slowLoader{delay: 50 * time.Millisecond}

	_, err := c.Get(context.Background(), "k", slow.load)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), "k", slow.load)
			if err != nil || v != 1 {
				t.Errorf("stale read got (%d, %v), want (1, nil)", v, err)
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return slow.callCount() == 2
	}, time.Second, 5*time.Millisecond, "exactly one background revalidation should run")
}

func TestGet_ExpiredValueLoadsSynchronously(t *testing.T) {
	c := New[int](time.Millisecond, time.Millisecond)
	loader := &countingLoader{}

	_, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	v, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "expired entries must not be served")
}

func TestRevalidate_FailureKeepsStaleValue(t *testing.T) {
	c := New[int](time.Millisecond, time.Minute)
	loader := &countingLoader{}

	first, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	loader.mu.Lock()
	loader.failWith = errors.New("database down")
	loader.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	// Trigger the failing background refresh, then wait for it.
	_, err = c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return loader.callCount() == 2
	}, time.Second, 5*time.Millisecond)

	v, err := c.Get(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "failed refresh must keep serving the stale value")
}

type slowLoader struct {
	calls int32
	delay time.Duration
}

func (l *slowLoader) load(context.Context) (int, error) {
	n := atomic.AddInt32(&l.calls, 1)
	if n > 1 {
		time.Sleep(l.delay)
	}
	return int(n), nil
}

func (l *slowLoader) callCount() int32 {
	return atomic.LoadInt32(&l.calls)
}
