package counters

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	counter := NewMonotonousCounter(3)
	require.True(t, counter.Set(4))
	require.Equal(t, uint64(4), counter.Value())
	require.False(t, counter.Set(4))
	require.False(t, counter.Set(2))
	require.Equal(t, uint64(4), counter.Value())
}

func TestConcurrentSet(t *testing.T) {
	counter := NewMonotonousCounter(0)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			counter.Set(v)
		}(uint64(i))
	}
	wg.Wait()

	require.Equal(t, uint64(100), counter.Value())
}
