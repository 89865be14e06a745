package timedcache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c := New[string, int](10, 10*time.Second, WithClock[string, int](clk.now))

	c.Set("u_1", 1)
	v, ok := c.Get("u_1")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 10*time.Second, c.Remaining("u_1"))

	clk.t = clk.t.Add(9 * time.Second)
	_, ok = c.Get("u_1")
	assert.True(t, ok)
	assert.Equal(t, time.Second, c.Remaining("u_1"))

	clk.t = clk.t.Add(time.Second)
	_, ok = c.Get("u_1")
	assert.False(t, ok)
	assert.Zero(t, c.Remaining("u_1"))
}

func TestBoundedSize(t *testing.T) {
	c := New[string, string](3, time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprint(i), "x")
	}
	assert.Equal(t, 3, c.lru.Len())
	_, ok := c.Get("0")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get("4")
	assert.True(t, ok)
}
