package querycache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestCache_Get_FreshHit(t *testing.T) {
	now := time.Now()
	cache := New(Config{
		FreshFor: 5 * time.Minute,
		Now:      func() time.Time { return now },
		Sleep:    noSleep,
	})

	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "payload", nil
	}
	key := Key{Domain: "analytics", Op: "byAddress", Params: "street=x"}

	got, err := cache.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	// Повторное чтение внутри окна свежести не ходит за данными.
	now = now.Add(4 * time.Minute)
	got, err = cache.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_Get_StaleServesOldValueAndRevalidates(t *testing.T) {
	now := time.Now()
	cache := New(Config{
		FreshFor: 5 * time.Minute,
		Now:      func() time.Time { return now },
		Sleep:    noSleep,
	})

	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return "old", nil
		}
		return "new", nil
	}
	key := Key{Domain: "analytics", Op: "byCity", Params: "city=Мурманск"}

	_, err := cache.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	// Запись устарела: отдается прежнее значение, обновление идет в фоне.
	now = now.Add(6 * time.Minute)
	got, err := cache.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "old", got)

	assert.Eventually(t, func() bool {
		v, err := cache.Get(context.Background(), key, fetch)
		return err == nil && v == "new"
	}, time.Second, 5*time.Millisecond)
}

func TestCache_Get_RetriesWithBackoff(t *testing.T) {
	var delays []time.Duration
	cache := New(Config{
		MaxRetries:  3,
		BackoffBase: time.Second,
		BackoffCap:  30 * time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	})

	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) < 4 {
			return nil, errors.New("upstream down")
		}
		return "ok", nil
	}

	got, err := cache.Get(context.Background(), Key{Domain: "d", Op: "o"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, delays)
}

func TestCache_Get_AllRetriesFail(t *testing.T) {
	cache := New(Config{MaxRetries: 2, Sleep: noSleep})

	wantErr := errors.New("permanent failure")
	var calls int32
	_, err := cache.Get(context.Background(), Key{Domain: "d", Op: "fail"}, func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCache_Invalidate_ByPrefix(t *testing.T) {
	cache := New(Config{Sleep: noSleep})
	fetch := func(v string) FetchFunc {
		return func(ctx context.Context) (interface{}, error) { return v, nil }
	}

	ctx := context.Background()
	_, err := cache.Get(ctx, Key{Domain: "mandates", Op: "list", Params: "user=a"}, fetch("a"))
	require.NoError(t, err)
	_, err = cache.Get(ctx, Key{Domain: "mandates", Op: "list", Params: "user=b"}, fetch("b"))
	require.NoError(t, err)
	_, err = cache.Get(ctx, Key{Domain: "invest", Op: "top"}, fetch("top"))
	require.NoError(t, err)

	removed := cache.Invalidate("mandates/")
	assert.Equal(t, 2, removed)

	// Инвалидированный ключ перечитывается, чужой домен остается в кэше.
	var refetched int32
	_, err = cache.Get(ctx, Key{Domain: "mandates", Op: "list", Params: "user=a"}, func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&refetched, 1)
		return "a2", nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refetched))
}

func TestCache_Mutate_RetriesOnceAndInvalidates(t *testing.T) {
	cache := New(Config{Sleep: noSleep})

	ctx := context.Background()
	_, err := cache.Get(ctx, Key{Domain: "deals", Op: "list"}, func(ctx context.Context) (interface{}, error) {
		return "stale", nil
	})
	require.NoError(t, err)

	var attempts int32
	err = cache.Mutate(ctx, func(ctx context.Context) error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, "deals/")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))

	var refetched bool
	_, err = cache.Get(ctx, Key{Domain: "deals", Op: "list"}, func(ctx context.Context) (interface{}, error) {
		refetched = true
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.True(t, refetched)
}

func TestCache_Mutate_FailsAfterSecondAttempt(t *testing.T) {
	cache := New(Config{Sleep: noSleep})

	wantErr := errors.New("still broken")
	var attempts int32
	err := cache.Mutate(context.Background(), func(ctx context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestCache_Mutate_HonorsConfiguredRetries(t *testing.T) {
	cache := New(Config{Sleep: noSleep, MutationRetries: 3})

	var attempts int32
	err := cache.Mutate(context.Background(), func(ctx context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("still broken")
	})

	assert.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
}
