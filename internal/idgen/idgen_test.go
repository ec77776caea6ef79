package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsStrictlyIncreasing(t *testing.T) {
	g := New(0)
	prev := g.Next()
	for range 1000 {
		id := g.Next()
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestFloorAboveClock(t *testing.T) {
	floor := time.Now().Add(time.Hour).UnixMilli()
	g := New(floor)
	assert.Equal(t, floor+1, g.Next())
	assert.Equal(t, floor+2, g.Next())
}

func TestConcurrentUnique(t *testing.T) {
	g := New(0)
	const workers, per = 8, 500

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*per)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, per)
			for range per {
				local = append(local, g.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*per)
}
