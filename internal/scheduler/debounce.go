package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when triggering a closed debouncer.
var ErrClosed = errors.New("scheduler is closed")

// RunFunc performs a recompute. It is only ever called from the loop
// goroutine, so two runs never overlap.
type RunFunc func(ctx context.Context, req Request)

// job is a request handed to the loop goroutine.
type job struct {
	req  Request
	done chan struct{}
}

// Debouncer holds at most one pending request. Each trigger merges into
// the pending request and restarts the delay; the request runs once the
// delay passes without another trigger.
type Debouncer struct {
	delay time.Duration
	run   RunFunc

	mu      sync.Mutex
	pending *Request
	timer   *time.Timer
	gen     uint64 // bumped per trigger; stale timer callbacks do nothing
	closed  bool

	jobs   chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDebouncer creates a debouncer and starts its loop goroutine.
func NewDebouncer(delay time.Duration, run RunFunc) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Debouncer{
		delay:  delay,
		run:    run,
		jobs:   make(chan job),
		ctx:    ctx,
		cancel: cancel,
	}

	d.wg.Add(1)
	go d.loop()
	return d
}

// Trigger schedules req, merging it with any pending request.
func (d *Debouncer) Trigger(req Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	if d.pending != nil {
		merged := d.pending.Merge(req)
		d.pending = &merged
	} else {
		d.pending = &req
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return nil
}

// Pending reports whether a request is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush runs the pending request now and waits for it to finish.
// It returns false when nothing was pending.
func (d *Debouncer) Flush() bool {
	req, ok := d.take()
	if !ok {
		return false
	}
	return d.submit(req)
}

// Close drops any pending request, waits for a running one and stops the
// loop goroutine.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

// fire is the timer callback of trigger generation gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	req, ok := d.takeLocked()
	d.mu.Unlock()

	if ok {
		d.submit(req)
	}
}

// take removes and returns the pending request.
func (d *Debouncer) take() (Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.takeLocked()
}

func (d *Debouncer) takeLocked() (Request, bool) {
	if d.pending == nil || d.closed {
		return Request{}, false
	}
	req := *d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return req, true
}

// submit hands req to the loop and waits until it has run.
func (d *Debouncer) submit(req Request) bool {
	j := job{req: req, done: make(chan struct{})}
	select {
	case d.jobs <- j:
	case <-d.ctx.Done():
		return false
	}
	<-j.done
	return true
}

func (d *Debouncer) loop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case j := <-d.jobs:
			d.run(d.ctx, j.req)
			close(j.done)
		}
	}
}
