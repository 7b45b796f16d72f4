package runloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoop_FIFO(t *testing.T) {
	l := New()

	var order []int
	l.Post(func() { order = append(order, 1) })
	l.Post(func() { order = append(order, 2) })
	l.Post(func() { order = append(order, 3) })

	assert.Equal(t, 3, l.Len())
	l.Drain()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, l.Len())
}

func TestLoop_PostDuringDrain(t *testing.T) {
	l := New()

	var order []string
	l.Post(func() {
		order = append(order, "outer")
		l.Post(func() { order = append(order, "inner") })
	})

	l.Drain()
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestLoop_NilTaskIgnored(t *testing.T) {
	l := New()
	l.Post(nil)
	assert.Equal(t, 0, l.Len())
	l.Drain()
}
