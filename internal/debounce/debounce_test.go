package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleCollapsesBurst(t *testing.T) {
	d := New(50 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	record := func(n int) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, n)
		}
	}

	// Three schedules inside one quiet period: only the last fires.
	d.Schedule(record(1))
	time.Sleep(10 * time.Millisecond)
	d.Schedule(record(2))
	time.Sleep(10 * time.Millisecond)
	d.Schedule(record(3))

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3}, got)
}

func TestStopCancelsPendingRun(t *testing.T) {
	d := New(30 * time.Millisecond)

	var mu sync.Mutex
	fired := false
	d.Schedule(func() {
		mu.Lock()
		defer mu.Unlock()
		fired = true
	})
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired)
}

func TestSeparateBurstsBothFire(t *testing.T) {
	d := New(20 * time.Millisecond)

	var mu sync.Mutex
	count := 0
	bump := func() {
		mu.Lock()
		defer mu.Unlock()
		count++
	}

	d.Schedule(bump)
	time.Sleep(60 * time.Millisecond)
	d.Schedule(bump)
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}
