package delayqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunInvokesDueEntriesInOrder(t *testing.T) {
	q := New()
	var mu sync.Mutex
	var order []int

	stop := make(chan struct{})
	go q.Run(stop)
	defer close(stop)

	var wg sync.WaitGroup
	wg.Add(3)
	base := time.Now()
	q.Schedule(base.Add(30*time.Millisecond), func() {
		mu.Lock()
		order = append(order, 3)
		mu.Unlock()
		wg.Done()
	})
	q.Schedule(base.Add(10*time.Millisecond), func() {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		wg.Done()
	})
	q.Schedule(base.Add(20*time.Millisecond), func() {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		wg.Done()
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduled entries")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestScheduleTiesBreakFIFO(t *testing.T) {
	q := New()
	at := time.Now().Add(10 * time.Millisecond)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(2)

	q.Schedule(at, func() {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		wg.Done()
	})
	q.Schedule(at, func() {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		wg.Done()
	})

	stop := make(chan struct{})
	go q.Run(stop)
	defer close(stop)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2}, order)
}
