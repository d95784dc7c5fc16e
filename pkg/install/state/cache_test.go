package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMembers(t *testing.T) {
	t.Run("fetches once", func(t *testing.T) {
		c := NewCache()
		calls := 0
		fetch := func() []string {
			calls++
			return []string{"a", "b"}
		}

		first := c.Members("brew", fetch)
		second := c.Members("brew", fetch)

		assert.Equal(t, 1, calls)
		assert.True(t, first["a"])
		assert.True(t, second["b"])
		assert.False(t, second["c"])
	})

	t.Run("empty fetch caches empty set", func(t *testing.T) {
		c := NewCache()
		calls := 0
		fetch := func() []string {
			calls++
			return nil
		}

		c.Members("apt", fetch)
		s := c.Members("apt", fetch)

		assert.Equal(t, 1, calls)
		assert.Empty(t, s)
	})

	t.Run("concurrent populate is safe", func(t *testing.T) {
		c := NewCache()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s := c.Members("cargo", func() []string { return []string{"ripgrep"} })
				assert.True(t, s["ripgrep"])
			}()
		}
		wg.Wait()
	})
}

func TestCachePutAndPeek(t *testing.T) {
	c := NewCache()

	_, ok := c.Peek("cask_apps")
	require.False(t, ok)

	c.Put("cask_apps", []string{"kitty", "visual-studio-code"})

	s, ok := c.Peek("cask_apps")
	require.True(t, ok)
	assert.True(t, s["kitty"])
}
