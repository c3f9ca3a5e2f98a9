package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLockerTimesOut(t *testing.T) {
	l := NewKeyedLocker(50 * time.Millisecond)

	unlock, err := l.Lock(context.Background(), TableKey(1))
	require.NoError(t, err)

	_, err = l.Lock(context.Background(), TableKey(2), TableKey(1))
	assert.ErrorIs(t, err, ErrLockTimeout)

	// the failed attempt must not keep table:2
	unlock2, err := l.Lock(context.Background(), TableKey(2))
	require.NoError(t, err)
	unlock2()

	unlock()
	unlock3, err := l.Lock(context.Background(), TableKey(1))
	require.NoError(t, err)
	unlock3()
}

func TestKeyedLockerHonoursContext(t *testing.T) {
	l := NewKeyedLocker(time.Minute)
	unlock, err := l.Lock(context.Background(), ReservationKey(9))
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, ReservationKey(9))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyedLockerSerializesOverlappingSets(t *testing.T) {
	l := NewKeyedLocker(5 * time.Second)
	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		keys := []string{TableKey(1), TableKey(2)}
		if i%2 == 0 {
			keys = []string{TableKey(2), TableKey(1), TableKey(2)}
		}
		wg.Add(1)
		go func(keys []string) {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), keys...)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}(keys)
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.slots)
}

func TestKeyedLockerUnlockIsIdempotent(t *testing.T) {
	l := NewKeyedLocker(50 * time.Millisecond)
	unlock, err := l.Lock(context.Background(), TableKey(1))
	require.NoError(t, err)
	unlock()
	unlock()

	again, err := l.Lock(context.Background(), TableKey(1))
	require.NoError(t, err)
	again()
}
