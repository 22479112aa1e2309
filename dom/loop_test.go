package dom

import (
	"context"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestLoopOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	l := NewLoop()
	var fired []string
	l.SetTimeout(30*time.Millisecond, func() { fired = append(fired, "c") })
	l.SetTimeout(10*time.Millisecond, func() { fired = append(fired, "a") })
	l.SetTimeout(10*time.Millisecond, func() { fired = append(fired, "b") })
	l.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 20*time.Millisecond, l.Now())
	l.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 0, l.Pending())
}

func TestLoopNestedAndCleared(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	l := NewLoop()
	count := 0
	id := l.SetTimeout(5*time.Millisecond, func() { count += 100 })
	l.SetTimeout(5*time.Millisecond, func() {
		count++
		l.SetTimeout(5*time.Millisecond, func() { count++ })
	})
	l.ClearTimeout(id)
	l.ClearTimeout(id) // unknown by now
	l.Advance(10 * time.Millisecond)
	assert.Equal(t, 2, count)
}

func TestLoopPostAndPanic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	l := NewLoop()
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	assert.NotPanics(t, func() { l.Advance(0) })
	assert.True(t, ran)
}

func TestLoopPostDoesNotBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	l := NewLoop()
	count := 0
	posted := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			l.Post(func() { count++ })
		}
		close(posted)
	}()
	select {
	case <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked while nobody drives the loop")
	}
	l.Post(func() {
		l.Post(func() { count++ })
	})
	l.RunPending()
	assert.Equal(t, 1001, count, "tasks posted by tasks run as well")
}

func TestLoopRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	l.Post(func() {
		l.SetTimeout(5*time.Millisecond, func() { close(done) })
	})
	go func() {
		<-done
		cancel()
	}()
	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	select {
	case <-done:
	default:
		t.Error("expected timer to have fired during Run")
	}
}
