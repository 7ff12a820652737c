package query

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

type payload struct {
	N int
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, `["marketSummary","1d"]`, Key{"marketSummary", "1d"}.String())
	assert.Equal(t, `["portfolioAnalysis",7]`, Key{"portfolioAnalysis", 7}.String())
	assert.Equal(t, Key{"a", 1}.String(), Key{"a", 1}.String())
	assert.NotEqual(t, Key{"a", 1}.String(), Key{"a", "1"}.String())
	assert.NotEqual(t, Key{"a", "b"}.String(), Key{"b", "a"}.String())
}

func TestFetch_ConcurrentRequestersShareOneProducer(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})

	produce := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return &payload{N: 42}, nil
	}

	const n = 25
	results := make([]any, n)
	var wg sync.WaitGroup
	var started sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			v, err := c.Fetch(context.Background(), Key{"marketSummary", "1d"}, produce)
			if err != nil {
				t.Errorf("Fetch: %v", err)
			}
			results[i] = v
		}(i)
	}
	started.Wait()
	// Let the requesters reach the flight before releasing the producer.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	first := results[0].(*payload)
	for i, r := range results {
		assert.Same(t, first, r.(*payload), "requester %d got a different value", i)
	}
}

func TestFetch_CachedAfterSuccess(t *testing.T) {
	c := NewCache()
	var calls int
	produce := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v1, err := c.Fetch(context.Background(), Key{"k"}, produce)
	require.NoError(t, err)
	v2, err := c.Fetch(context.Background(), Key{"k"}, produce)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, v1, v2)
}

func TestFetch_DistinctKeysAreIndependent(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	a, err := Get(ctx, c, Key{"marketSummary", "1d"}, func(ctx context.Context) (string, error) {
		return "day", nil
	})
	require.NoError(t, err)
	b, err := Get(ctx, c, Key{"marketSummary", "1w"}, func(ctx context.Context) (string, error) {
		return "week", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "day", a)
	assert.Equal(t, "week", b)
	assert.Equal(t, "day", c.State(Key{"marketSummary", "1d"}).Data)
	assert.Equal(t, "week", c.State(Key{"marketSummary", "1w"}).Data)
}

func TestFetch_ErrorIsReportedNotCached(t *testing.T) {
	c := NewCache()
	boom := errors.New("connection refused")
	var calls int

	_, err := c.Fetch(context.Background(), Key{"k"}, func(ctx context.Context) (any, error) {
		calls++
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	st := c.State(Key{"k"})
	assert.Equal(t, StatusError, st.Status)
	assert.ErrorIs(t, st.Err, boom)

	v, err := c.Fetch(context.Background(), Key{"k"}, func(ctx context.Context) (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
	assert.Equal(t, StatusSuccess, c.State(Key{"k"}).Status)
}

func TestState_Lifecycle(t *testing.T) {
	c := NewCache()
	key := Key{"portfolioSummary"}
	assert.Equal(t, StatusIdle, c.State(key).Status)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
			close(entered)
			<-release
			return 1, nil
		})
	}()

	<-entered
	assert.Equal(t, StatusLoading, c.State(key).Status)
	close(release)
	<-done

	st := c.State(key)
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, 1, st.Data)
	assert.False(t, st.UpdatedAt.IsZero())
}

func TestFetch_TTLExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	var calls int
	produce := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, _ = c.Fetch(context.Background(), Key{"k"}, produce)
	now = now.Add(30 * time.Second)
	v, _ := c.Fetch(context.Background(), Key{"k"}, produce)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	v, _ = c.Fetch(context.Background(), Key{"k"}, produce)
	assert.Equal(t, 2, v)
}

func TestFetch_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(WithClock(func() time.Time { return now }))
	var calls int
	produce := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}
	_, _ = c.Fetch(context.Background(), Key{"k"}, produce)
	now = now.Add(365 * 24 * time.Hour)
	_, _ = c.Fetch(context.Background(), Key{"k"}, produce)
	assert.Equal(t, 1, calls)
	assert.Zero(t, c.Sweep())
}

func TestFetch_CancelledRequesterStillPopulatesCache(t *testing.T) {
	c := NewCache()
	release := make(chan struct{})
	finished := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, Key{"slow"}, func(pctx context.Context) (any, error) {
			defer close(finished)
			<-release
			// The producer context is detached from the requester.
			return "value", pctx.Err()
		})
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	<-finished
	require.Eventually(t, func() bool {
		return c.State(Key{"slow"}).Status == StatusSuccess
	}, time.Second, 5*time.Millisecond)

	v, err := c.Fetch(context.Background(), Key{"slow"}, func(ctx context.Context) (any, error) {
		t.Fatal("producer should not run again")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}

func TestInvalidateAndClear(t *testing.T) {
	c := NewCache()
	var calls int
	produce := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}
	ctx := context.Background()

	_, _ = c.Fetch(ctx, Key{"a"}, produce)
	_, _ = c.Fetch(ctx, Key{"b"}, produce)
	assert.Equal(t, 2, c.Len())

	c.Invalidate(Key{"a"})
	assert.Equal(t, StatusIdle, c.State(Key{"a"}).Status)
	v, _ := c.Fetch(ctx, Key{"a"}, produce)
	assert.Equal(t, 3, v)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestInvalidate_DuringFlightKeepsOneProducer(t *testing.T) {
	c := NewCache()
	key := Key{"portfolioSummary"}

	var calls, inFlight, maxInFlight atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	produce := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if cur <= m || maxInFlight.CompareAndSwap(m, cur) {
				break
			}
		}
		if n == 1 {
			close(entered)
			<-release
		}
		return int(n), nil
	}

	first := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(context.Background(), key, produce)
		first <- v
	}()
	<-entered

	c.Invalidate(key)
	assert.Equal(t, StatusIdle, c.State(key).Status)

	second := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(context.Background(), key, produce)
		second <- v
	}()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	assert.Equal(t, 1, <-first)
	assert.Equal(t, 2, <-second)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), maxInFlight.Load())
	st := c.State(key)
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, 2, st.Data)
}

func TestInvalidate_DuringFlightDiscardsResult(t *testing.T) {
	c := NewCache()
	key := Key{"recommendations"}
	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
			close(entered)
			<-release
			return "stale", nil
		})
		done <- v
	}()
	<-entered
	c.Clear()
	close(release)

	assert.Equal(t, "stale", <-done)
	assert.Equal(t, StatusIdle, c.State(key).Status)
	assert.Zero(t, c.Len())
}

func TestSweep_RemovesExpiredAndFailed(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, _ = c.Fetch(ctx, Key{"old"}, func(ctx context.Context) (any, error) { return 1, nil })
	_, _ = c.Fetch(ctx, Key{"bad"}, func(ctx context.Context) (any, error) { return nil, errors.New("x") })
	now = now.Add(2 * time.Minute)
	_, _ = c.Fetch(ctx, Key{"new"}, func(ctx context.Context) (any, error) { return 2, nil })

	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, StatusIdle, c.State(Key{"old"}).Status)
	assert.Equal(t, StatusIdle, c.State(Key{"bad"}).Status)
	assert.Equal(t, StatusSuccess, c.State(Key{"new"}).Status)
}

func TestGet_TypedError(t *testing.T) {
	c := NewCache()
	v, err := Get(context.Background(), c, Key{"x"}, func(ctx context.Context) (*payload, error) {
		return nil, errors.New("nope")
	})
	assert.Error(t, err)
	assert.Nil(t, v)
}
