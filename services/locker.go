package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var ErrLockTimeout = errors.New("lock acquisition timed out")

// KeyedLocker is an in-process mutex per key. Keys are always taken in sorted
// order so two callers locking overlapping sets cannot deadlock.
type KeyedLocker struct {
	mu      sync.Mutex
	slots   map[string]*lockSlot
	timeout time.Duration
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func NewKeyedLocker(timeout time.Duration) *KeyedLocker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KeyedLocker{slots: make(map[string]*lockSlot), timeout: timeout}
}

func TableKey(id uint) string       { return fmt.Sprintf("table:%d", id) }
func ReservationKey(id uint) string { return fmt.Sprintf("reservation:%d", id) }

// Lock acquires every key or none. The returned func releases them.
func (l *KeyedLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = sortedUnique(keys)

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	held := make([]string, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.release(held[i])
		}
	}

	for _, key := range keys {
		slot := l.acquireSlot(key)
		select {
		case slot.ch <- struct{}{}:
			held = append(held, key)
		case <-timer.C:
			l.dropRef(key)
			release()
			return nil, ErrLockTimeout
		case <-ctx.Done():
			l.dropRef(key)
			release()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *KeyedLocker) acquireSlot(key string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *KeyedLocker) release(key string) {
	l.mu.Lock()
	slot := l.slots[key]
	l.mu.Unlock()
	<-slot.ch
	l.dropRef(key)
}

func (l *KeyedLocker) dropRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot := l.slots[key]
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

func sortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func tableKeys(ids []uint) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, TableKey(id))
	}
	return keys
}
