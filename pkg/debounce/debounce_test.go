package debounce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_SingleDispatchForBurst(t *testing.T) {
	var mu sync.Mutex
	var got []string

	d := NewDispatcher(30*time.Millisecond, func(_ context.Context, _ uint64, value string) {
		mu.Lock()
		got = append(got, value)
		mu.Unlock()
	})
	defer d.Close()

	// Typing faster than the quiescence window.
	for _, v := range []string{"l", "li", "liv", "livi", "living room"} {
		d.Submit(v)
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"living room"}, got)
}

func TestDispatcher_SeparateBurstsDispatchSeparately(t *testing.T) {
	var mu sync.Mutex
	var got []string

	d := NewDispatcher(10*time.Millisecond, func(_ context.Context, _ uint64, value string) {
		mu.Lock()
		got = append(got, value)
		mu.Unlock()
	})
	defer d.Close()

	d.Submit("first")
	time.Sleep(50 * time.Millisecond)
	d.Submit("second")
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestDispatcher_StaleGenerationDetected(t *testing.T) {
	type dispatch struct {
		generation uint64
		value      string
	}
	ch := make(chan dispatch, 4)

	d := NewDispatcher(5*time.Millisecond, func(_ context.Context, generation uint64, value string) {
		ch <- dispatch{generation, value}
	})
	defer d.Close()

	d.Submit("old")
	first := <-ch
	d.Submit("new")
	second := <-ch

	// The slow first response must not be applied once the second dispatch
	// exists.
	assert.False(t, d.Latest(first.generation))
	assert.True(t, d.Latest(second.generation))
	assert.Equal(t, "new", second.value)
}

func TestDispatcher_CloseCancelsPending(t *testing.T) {
	fired := make(chan struct{}, 1)
	d := NewDispatcher(20*time.Millisecond, func(_ context.Context, _ uint64, _ string) {
		fired <- struct{}{}
	})

	d.Submit("value")
	d.Close()

	select {
	case <-fired:
		t.Fatal("dispatch fired after Close")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDispatcher_FlushDispatchesImmediately(t *testing.T) {
	got := make(chan string, 1)
	d := NewDispatcher(time.Hour, func(_ context.Context, _ uint64, value string) {
		got <- value
	})
	defer d.Close()

	d.Submit("pending")
	d.Flush()

	select {
	case v := <-got:
		assert.Equal(t, "pending", v)
	case <-time.After(time.Second):
		t.Fatal("flush did not dispatch")
	}
}
