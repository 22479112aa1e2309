package dom

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// TimerID identifies a scheduled timeout.
type TimerID uint64

// Loop is a single-goroutine event loop, the stand-in for a browser's
// setTimeout facility. Timers are kept on a virtual clock, which is driven
// either explicitly by Advance (tests, batch processing) or by Run, which
// follows the wall clock.
//
// All methods except Post must be called from the goroutine driving the
// loop. Timer callbacks run on that goroutine.
type Loop struct {
	clock  time.Duration // virtual time since the loop was created
	seq    uint64        // scheduling sequence, breaks ties between due times
	timers timerQueue
	byID   map[TimerID]*timer
	trace  tracing.Trace
	mu     sync.Mutex // guards tasks
	tasks  []func()
	notify chan struct{} // signals posted tasks to Run
}

type timer struct {
	id    TimerID
	due   time.Duration
	seq   uint64
	fn    func()
	index int
}

// NewLoop creates an idle loop at virtual time 0.
func NewLoop() *Loop {
	return &Loop{
		byID:   make(map[TimerID]*timer),
		notify: make(chan struct{}, 1),
	}
}

// Now returns the loop's virtual time.
func (l *Loop) Now() time.Duration {
	return l.clock
}

// SetTimeout schedules fn to run once, d after the current virtual time.
// Negative durations count as zero.
func (l *Loop) SetTimeout(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	l.seq++
	t := &timer{
		id:  TimerID(l.seq),
		due: l.clock + d,
		seq: l.seq,
		fn:  fn,
	}
	heap.Push(&l.timers, t)
	l.byID[t.id] = t
	return t.id
}

// ClearTimeout cancels a pending timer. Unknown or already fired timers are
// ignored.
func (l *Loop) ClearTimeout(id TimerID) {
	t, ok := l.byID[id]
	if !ok {
		return
	}
	delete(l.byID, id)
	heap.Remove(&l.timers, t.index)
}

// Pending returns the number of scheduled timers.
func (l *Loop) Pending() int {
	return len(l.timers)
}

// SetTracer sets the tracer the loop reports panicking callbacks to.
// nil selects the package tracer.
func (l *Loop) SetTracer(t tracing.Trace) {
	l.trace = t
}

// Post hands fn over to the loop. It is safe to call from any goroutine
// and never blocks: the task queue is unbounded, so tasks pile up in
// memory as long as nobody drives the loop.
// Posted functions run before any timer due at the same time.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// RunPending runs all posted functions, including functions posted by
// them.
func (l *Loop) RunPending() {
	for {
		l.mu.Lock()
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			l.run(fn)
		}
	}
}

// Advance moves the virtual clock forward by d, running posted functions
// and then every timer falling due on the way, in order of due time.
// Timers scheduled by callbacks are honored if they fall due within d.
func (l *Loop) Advance(d time.Duration) {
	l.RunPending()
	l.fireUntil(l.clock + d)
}

func (l *Loop) fireUntil(target time.Duration) {
	for len(l.timers) > 0 && l.timers[0].due <= target {
		t := heap.Pop(&l.timers).(*timer)
		delete(l.byID, t.id)
		l.clock = t.due
		l.run(t.fn)
		l.RunPending()
	}
	if target > l.clock {
		l.clock = target
	}
}

// Run drives the loop by the wall clock until ctx is done.
// It returns the context's error.
func (l *Loop) Run(ctx context.Context) error {
	start := time.Now()
	base := l.clock
	elapsed := func() time.Duration { return base + time.Since(start) }
	for {
		l.RunPending()
		l.fireUntil(elapsed())
		var wake <-chan time.Time
		var alarm *time.Timer
		if len(l.timers) > 0 {
			alarm = time.NewTimer(l.timers[0].due - elapsed())
			wake = alarm.C
		}
		select {
		case <-ctx.Done():
			if alarm != nil {
				alarm.Stop()
			}
			return ctx.Err()
		case <-l.notify:
			l.RunPending()
		case <-wake:
		}
		if alarm != nil {
			alarm.Stop()
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.tracer().Errorf("loop callback panicked: %v", r)
		}
	}()
	if fn != nil {
		fn()
	}
}

func (l *Loop) tracer() tracing.Trace {
	if l.trace == nil {
		return tracer()
	}
	return l.trace
}

// --- Timer queue -----------------------------------------------------------

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}
func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x interface{}) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
