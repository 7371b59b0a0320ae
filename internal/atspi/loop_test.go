package atspi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_DrainIsFIFO(t *testing.T) {
	l := NewLoop()
	var got []int

	l.Post(func() {
		got = append(got, 1)
		l.Post(func() { got = append(got, 4) })
	})
	l.Post(func() { got = append(got, 2) })
	l.Post(func() { got = append(got, 3) })

	assert.Equal(t, 4, l.Drain())
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Equal(t, 0, l.Drain())
}

func TestLoop_InvokeRunsOnLoop(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.ErrorIs(t, l.Run(ctx), context.Canceled)
	}()

	counter := 0
	for i := 0; i < 100; i++ {
		l.Invoke(func() { counter++ })
	}
	assert.Equal(t, 100, counter)

	cancel()
	wg.Wait()
}

func TestLoop_AwaitCompletedCallPostsImmediately(t *testing.T) {
	l := NewLoop()
	call := &dbus.Call{Done: make(chan *dbus.Call, 1)}
	call.Done <- call

	ran := false
	l.Await(call, func(c *dbus.Call) { ran = c == call })
	assert.Equal(t, 1, l.Drain())
	assert.True(t, ran)
}

func TestLoop_AwaitPendingCall(t *testing.T) {
	l := NewLoop()
	call := &dbus.Call{Done: make(chan *dbus.Call, 1)}

	var ran bool
	l.Await(call, func(*dbus.Call) { ran = true })
	assert.Equal(t, 0, l.Drain())

	call.Done <- call
	require.Eventually(t, func() bool {
		l.Drain()
		return ran
	}, time.Second, 5*time.Millisecond)
}
