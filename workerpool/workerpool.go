// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs indexed jobs on a fixed set of long-lived
// goroutines. Jobs claim indices from a shared counter, so uneven job costs
// balance across workers.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	errs := pool.ForEach(ctx, len(shapes), func(ctx context.Context, i int) error {
//	    return render(ctx, shapes[i])
//	})
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Pool is a persistent worker pool. Workers are spawned once at creation
// and reused by every call until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// counter is the index dispenser shared by the workers of one call. The
// padding keeps it off the cache lines of neighbouring allocations.
type counter struct {
	_    cpu.CacheLinePad
	next atomic.Int64
	_    cpu.CacheLinePad
}

func (c *counter) claim() int { return int(c.next.Add(1)) - 1 }

// New creates a pool of numWorkers goroutines, GOMAXPROCS if numWorkers <= 0.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once pending work completes. It is safe to call
// more than once. Calls made after Close run on the caller's goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelForAtomic calls fn once for every index in [0, n) and blocks until
// all calls return.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	c := new(counter)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					i := c.claim()
					if i >= n {
						return
					}
					fn(i)
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ForEach calls fn for every index in [0, n) and returns the errors indexed
// like the jobs. A failing job does not stop the others. Once ctx is done,
// unstarted jobs are not run and report ctx.Err().
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	if n <= 0 {
		return nil
	}
	errs := make([]error, n)
	p.ParallelForAtomic(n, func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return
		}
		errs[i] = fn(ctx, i)
	})
	return errs
}
