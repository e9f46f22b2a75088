package forest

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLifecycle(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.False(t, r.Seen("a"))

	assert.True(t, r.Begin("a"))
	assert.True(t, r.Seen("a"))
	assert.False(t, r.Visited("a"))
	assert.False(t, r.Begin("a"), "active name cannot be claimed twice")

	assert.True(t, r.Finish("a"))
	assert.True(t, r.Visited("a"))
	assert.False(t, r.Begin("a"), "visited name cannot be claimed")
	assert.False(t, r.Finish("a"), "name is registered once")

	assert.Equal(t, []string{"a"}, r.Names())
	assert.Equal(t, 1, r.Len())
}

func TestRegistryAbandon(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.True(t, r.Begin("a"))
	r.Abandon("a")

	assert.False(t, r.Seen("a"))
	assert.Empty(t, r.Names())
	assert.True(t, r.Begin("a"))
}

func TestRegistryNamesIsACopy(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Begin("a")
	r.Finish("a")

	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a"}, r.Names())
}

func TestRegistryConcurrentBegin(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Begin("shared") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
