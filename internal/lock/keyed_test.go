package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireDistinctKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()

	relA, err := km.Acquire(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	relB, err := km.Acquire(ctx, "b")
	require.NoError(t, err)

	relA()
	relB()
	assert.Equal(t, 0, km.Len())
}

func TestAcquireSameKeyTimesOut(t *testing.T) {
	km := NewKeyedMutex()

	rel, err := km.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer rel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = km.Acquire(ctx, "a")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAcquireSerializesHolders(t *testing.T) {
	km := NewKeyedMutex()

	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rel, err := km.Acquire(context.Background(), "show")
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
			rel()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
	assert.Equal(t, 0, km.Len())
}

func TestEntryRemovedAfterLastRelease(t *testing.T) {
	km := NewKeyedMutex()

	rel, err := km.Acquire(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, km.Len())

	rel()
	assert.Equal(t, 0, km.Len())

	// A fresh acquire after cleanup works as if the key were new.
	rel, err = km.Acquire(context.Background(), "a")
	require.NoError(t, err)
	rel()
	assert.Equal(t, 0, km.Len())
}
