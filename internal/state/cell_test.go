package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellGetSet(t *testing.T) {
	c := New("a")
	assert.Equal(t, "a", c.Get())
	c.Set("b")
	assert.Equal(t, "b", c.Get())
}

func TestCellSubscribeReceivesLaterValues(t *testing.T) {
	c := New(0)
	ch, cancel := c.Subscribe()
	defer cancel()

	c.Set(1)
	require.Equal(t, 1, <-ch)
	c.Set(2)
	require.Equal(t, 2, <-ch)
}

func TestCellSlowSubscriberSeesLatest(t *testing.T) {
	c := New(0)
	ch, cancel := c.Subscribe()
	defer cancel()

	for i := 1; i <= 10; i++ {
		c.Set(i)
	}
	assert.Equal(t, 10, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected backlog value %d", v)
	default:
	}
}

func TestCellUnsubscribeClosesChannel(t *testing.T) {
	c := New(0)
	ch, cancel := c.Subscribe()
	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open)

	c.Set(5) // must not panic on the closed channel
	assert.Equal(t, 5, c.Get())
}

func TestCellUpdateIsAtomic(t *testing.T) {
	c := New([]int{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Update(func(list []int) []int {
				return append(append([]int(nil), list...), i)
			})
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.Get(), 50)
}
