package eventloop

import (
	"testing"
	"time"

	"github.com/saferwall/ut/cancel"
	"github.com/stretchr/testify/assert"
)

func TestTimersFireInDeadlineOrder(t *testing.T) {
	l := New()
	var order []string

	l.AddDelay(20*time.Millisecond, func() { order = append(order, "b") }, nil)
	l.AddDelay(10*time.Millisecond, func() { order = append(order, "a") }, nil)
	l.AddDelay(25*time.Millisecond, func() {
		order = append(order, "c")
		l.Return(nil)
	}, nil)

	l.Run()

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestCancelledTimerNeverFires(t *testing.T) {
	l := New()
	c := cancel.New()
	fired := false

	l.AddDelay(10*time.Millisecond, func() { fired = true }, c)
	l.AddDelay(20*time.Millisecond, func() { l.Return(nil) }, nil)
	c.Activate()

	l.Run()

	assert.False(t, fired)
}

func TestRepeatingTimer(t *testing.T) {
	l := New()
	count := 0
	var stop *cancel.Token = cancel.New()

	l.AddTimer(5*time.Millisecond, func() {
		count++
		if count == 3 {
			stop.Activate()
			l.Return(nil)
		}
	}, stop)

	l.Run()

	assert.Equal(t, 3, count)
}
