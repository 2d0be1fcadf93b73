package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func counter(calls *int32, value string) LoadFunc[string] {
	return func(ctx context.Context) (string, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestCache_GetLoadsOnceUntilExpiry(t *testing.T) {
	c := New[string](time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls int32
	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), "p1", counter(&calls, "v1"))
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
	}
	assert.Equal(t, int32(1), calls)

	now = now.Add(2 * time.Minute)
	_, err := c.Get(context.Background(), "p1", counter(&calls, "v1"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
}

func TestCache_Invalidate(t *testing.T) {
	c := New[string](time.Minute)
	var calls int32

	_, _ = c.Get(context.Background(), "p1", counter(&calls, "v1"))
	_, _ = c.Get(context.Background(), "p2", counter(&calls, "v2"))
	assert.Equal(t, 2, c.Len())

	c.Invalidate("p1")
	assert.Equal(t, 1, c.Len())

	v, err := c.Get(context.Background(), "p1", counter(&calls, "v1b"))
	require.NoError(t, err)
	assert.Equal(t, "v1b", v)

	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := New[string](time.Minute)
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), "p1", func(ctx context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTLDisablesStorage(t *testing.T) {
	c := New[string](0)
	var calls int32
	_, _ = c.Get(context.Background(), "p1", counter(&calls, "v"))
	_, _ = c.Get(context.Background(), "p1", counter(&calls, "v"))
	assert.Equal(t, int32(2), calls)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	c := New[string](time.Minute)
	release := make(chan struct{})
	var calls int32
	load := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get(context.Background(), "p1", load)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	for _, r := range results {
		assert.Equal(t, "v", r)
	}
}

func TestCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	c := New[string](time.Minute)
	started, release := make(chan struct{}), make(chan struct{})

	done := make(chan string)
	go func() {
		v, _ := c.Get(context.Background(), "p1", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate("p1")
	close(release)
	assert.Equal(t, "stale", <-done)
	assert.Equal(t, 0, c.Len())
}

func TestCache_KeyBackedByReusedBuffer(t *testing.T) {
	c := New[string](time.Minute)
	var calls int32

	// The key aliases a buffer that is overwritten once Get returns, the
	// way request parameters do.
	buf := []byte("p1")
	key := unsafe.String(&buf[0], len(buf))
	v, err := c.Get(context.Background(), key, counter(&calls, "v1"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	copy(buf, "zz")

	v, err = c.Get(context.Background(), "p1", counter(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), calls)

	c.Invalidate("p1")
	assert.Equal(t, 0, c.Len())

	v, err = c.Get(context.Background(), "p1", counter(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}
