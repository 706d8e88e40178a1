package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal_Now(t *testing.T) {
	before := time.Now()
	now := Real{}.Now()

	assert.False(t, now.Before(before))
}

func TestMock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := NewMock(start)
	assert.True(t, c.Now().Equal(start))

	assert.True(t, c.Advance(90*time.Minute).Equal(start.Add(90*time.Minute)))
	assert.True(t, c.Now().Equal(start.Add(90*time.Minute)))

	c.Set(start)
	assert.True(t, c.Now().Equal(start))
}

func TestMock_ZeroStartsAtEpoch(t *testing.T) {
	assert.True(t, NewMock(time.Time{}).Now().Equal(Epoch))
}

func TestMock_ConcurrentAdvance(t *testing.T) {
	c := NewMock(time.Time{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50*time.Second, c.Now().Sub(Epoch))
}

func TestMillis(t *testing.T) {
	start := Epoch
	assert.Equal(t, int64(1500), Millis(start, start.Add(1500*time.Millisecond)))
	assert.Equal(t, int64(0), Millis(start, start.Add(999*time.Microsecond)))
	assert.Equal(t, int64(0), Millis(start, start.Add(-time.Second)))
}

func TestOrReal(t *testing.T) {
	assert.IsType(t, Real{}, OrReal(nil))

	m := NewMock(time.Time{})
	assert.Same(t, m, OrReal(m))
}
