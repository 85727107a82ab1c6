// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package eventloop implements the single-threaded, cooperative
// reactor (C3): ordered one-shot and repeating timers, read/write
// file-descriptor watches, and worker-thread offload with completion
// signalled over a self-pipe.
//
// Per §9's redesign note, the loop is an explicit object constructed
// by the caller rather than a package-level global: streams, timers,
// and workers are registered against a *Loop value, so more than one
// reactor can coexist in a process (e.g. one per test).
package eventloop

import (
	"sort"
	"time"

	"golang.org/x/sys/unix"

	"github.com/saferwall/ut/internal/utlog"
	"github.com/saferwall/ut/cancel"
)

// Callback is invoked when a timer fires or a watched fd becomes ready.
type Callback func()

// ThreadWork is opaque CPU work run on a freshly spawned goroutine,
// the Go rendering of a worker thread (goroutines, not OS threads, are
// the idiomatic offload unit, but the completion-over-self-pipe
// protocol is kept because gzip/jpeg callers may want to wait on it
// alongside fd readiness in the same Select call).
type ThreadWork func() any

// ThreadResultCallback receives a worker's result back on the loop.
type ThreadResultCallback func(result any)

type timer struct {
	deadline time.Time
	period   time.Duration // zero for one-shot
	callback Callback
	cancel   *cancel.Token
}

type fdWatch struct {
	fd       int
	callback Callback
	cancel   *cancel.Token
}

type workerThread struct {
	readFd, writeFd int
	resultCh        chan any
	isAlive         func() bool // nil means "always alive"
	resultCallback  ThreadResultCallback
	done            bool
}

// Loop is one cooperative reactor. The zero value is not usable; use
// New.
type Loop struct {
	timers       []*timer
	readWatches  []*fdWatch
	writeWatches []*fdWatch
	workers      []*workerThread

	complete bool
	retval   any

	log *utlog.Helper
}

// New returns a ready-to-run, empty Loop.
func New() *Loop {
	return &Loop{log: utlog.NewHelper("eventloop")}
}

// AddDelay schedules callback to run once after d, unless cancel is
// activated first.
func (l *Loop) AddDelay(d time.Duration, callback Callback, cancel *cancel.Token) {
	l.insertTimer(&timer{deadline: time.Now().Add(d), callback: callback, cancel: cancel})
}

// AddTimer schedules callback to run repeatedly every d, starting d
// from now, until cancel is activated.
func (l *Loop) AddTimer(d time.Duration, callback Callback, cancel *cancel.Token) {
	l.insertTimer(&timer{deadline: time.Now().Add(d), period: d, callback: callback, cancel: cancel})
}

func (l *Loop) insertTimer(t *timer) {
	l.timers = append(l.timers, t)
	sort.SliceStable(l.timers, func(i, j int) bool {
		return l.timers[i].deadline.Before(l.timers[j].deadline)
	})
}

// AddReadWatch invokes callback whenever fd is ready for reading.
func (l *Loop) AddReadWatch(fd int, callback Callback, cancel *cancel.Token) {
	l.readWatches = append(l.readWatches, &fdWatch{fd: fd, callback: callback, cancel: cancel})
}

// AddWriteWatch invokes callback whenever fd is ready for writing.
func (l *Loop) AddWriteWatch(fd int, callback Callback, cancel *cancel.Token) {
	l.writeWatches = append(l.writeWatches, &fdWatch{fd: fd, callback: callback, cancel: cancel})
}

// AddWorkerThread runs work on a new goroutine; when it finishes, a
// byte is written to a self-pipe this loop watches, and once observed,
// resultCallback runs back on the loop with the work's return value —
// provided isAlive (the Go rendering of "the weak-held callback object
// still lives", §4.3) still reports true. Pass a nil isAlive when the
// result callback has no owner that can be torn down early.
func (l *Loop) AddWorkerThread(work ThreadWork, isAlive func() bool, resultCallback ThreadResultCallback) {
	fds, err := unixPipe()
	if err != nil {
		l.log.Error("failed to create worker completion pipe", "error", err)
		return
	}
	w := &workerThread{
		readFd: fds[0], writeFd: fds[1],
		resultCh:       make(chan any, 1),
		isAlive:        isAlive,
		resultCallback: resultCallback,
	}
	l.workers = append(l.workers, w)

	go func() {
		result := work()
		w.resultCh <- result
		unix.Write(w.writeFd, []byte{0})
	}()
}

func unixPipe() ([2]int, error) {
	var fds [2]int
	p := make([]int, 2)
	if err := unix.Pipe(p); err != nil {
		return fds, err
	}
	fds[0], fds[1] = p[0], p[1]
	return fds, nil
}

// Return stops the loop after the current iteration completes,
// yielding value from Run.
func (l *Loop) Return(value any) {
	if l.complete {
		panic("eventloop: Return called twice")
	}
	l.retval = value
	l.complete = true
}

// Run drives the loop until Return is called, then returns its value.
func (l *Loop) Run() any {
	for !l.complete {
		l.fireDueTimers()
		if l.complete {
			break
		}
		l.iterateOnce()
	}
	return l.retval
}

// fireDueTimers implements §4.3 step 1: fire or drop every timer whose
// deadline has passed or whose cancel is active, re-inserting repeats.
func (l *Loop) fireDueTimers() {
	for {
		if len(l.timers) == 0 {
			return
		}
		t := l.timers[0]
		now := time.Now()
		cancelled := t.cancel != nil && t.cancel.IsActive()
		if !cancelled && t.deadline.After(now) {
			return
		}
		l.timers = l.timers[1:]
		if !cancelled {
			t.callback()
		}
		if !cancelled && t.period > 0 {
			t.deadline = t.deadline.Add(t.period)
			l.insertTimer(t)
		}
	}
}

// iterateOnce implements §4.3 steps 2-7: compute a timeout from the
// earliest remaining timer, wait for fd readiness or that timeout,
// reap worker threads, and fire ready watches.
func (l *Loop) iterateOnce() {
	l.readWatches = sweepCancelled(l.readWatches)
	l.writeWatches = sweepCancelled(l.writeWatches)

	var readSet, writeSet unix.FdSet
	maxFd := -1
	addFd := func(set *unix.FdSet, fd int) {
		fdSet(set, fd)
		if fd > maxFd {
			maxFd = fd
		}
	}
	for _, w := range l.workers {
		if !w.done {
			addFd(&readSet, w.readFd)
		}
	}
	for _, w := range l.readWatches {
		addFd(&readSet, w.fd)
	}
	for _, w := range l.writeWatches {
		addFd(&writeSet, w.fd)
	}

	var tv *unix.Timeval
	if len(l.timers) > 0 {
		d := time.Until(l.timers[0].deadline)
		if d < 0 {
			d = 0
		}
		sec := int64(d / time.Second)
		usec := int64((d % time.Second) / time.Microsecond)
		tv = &unix.Timeval{Sec: sec, Usec: usec}
	}

	if maxFd >= 0 || tv != nil {
		_, _ = unix.Select(maxFd+1, &readSet, &writeSet, nil, tv)
	} else if maxFd < 0 {
		// Nothing to wait on and no timer pending: avoid a busy loop.
		time.Sleep(time.Millisecond)
	}

	l.reapWorkers(&readSet)
	l.fireReadyWatches(l.readWatches, &readSet)
	l.fireReadyWatches(l.writeWatches, &writeSet)
}

func (l *Loop) reapWorkers(readSet *unix.FdSet) {
	remaining := l.workers[:0]
	for _, w := range l.workers {
		if !w.done && fdIsSet(readSet, w.readFd) {
			unix.Read(w.readFd, make([]byte, 1))
			unix.Close(w.readFd)
			unix.Close(w.writeFd)
			w.done = true
			result := <-w.resultCh
			if w.isAlive == nil || w.isAlive() {
				w.resultCallback(result)
			}
			continue
		}
		remaining = append(remaining, w)
	}
	l.workers = remaining
}

func (l *Loop) fireReadyWatches(watches []*fdWatch, set *unix.FdSet) {
	for _, w := range watches {
		if w.cancel != nil && w.cancel.IsActive() {
			continue
		}
		if fdIsSet(set, w.fd) {
			w.callback()
		}
	}
}

func sweepCancelled(watches []*fdWatch) []*fdWatch {
	out := watches[:0]
	for _, w := range watches {
		if w.cancel != nil && w.cancel.IsActive() {
			continue
		}
		out = append(out, w)
	}
	return out
}
