// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs tile jobs on a fixed set of goroutines.
//
// Each worker owns a queue. Jobs are dealt round-robin; a worker whose queue
// is empty steals from the others before blocking, which evens out tiles of
// very different cost.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// mu is held shared while ExecuteAll enqueues and exclusively while
	// Close stops the workers, so no job lands in a drained queue.
	mu sync.RWMutex
}

// NewWorkerPool starts a pool. A non-positive count uses GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	slogger().Debug("parallel: worker pool started", "workers", workers)
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case job := <-own:
			job()
			continue
		case <-p.done:
			p.drain(own)
			return
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}

		select {
		case job := <-own:
			job()
		case <-p.done:
			p.drain(own)
			return
		}
	}
}

// drain runs whatever is left in q.
func (p *WorkerPool) drain(q chan func()) {
	for {
		select {
		case job := <-q:
			job()
		default:
			return
		}
	}
}

// steal takes one job from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case job := <-p.queues[(id+i)%p.workers]:
			return job
		default:
		}
	}
	return nil
}

// ExecuteAll runs every job and waits for all of them. On a closed pool the
// jobs run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(jobs []func()) {
	if len(jobs) == 0 {
		return
	}

	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		for _, job := range jobs {
			job()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			job()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Close stops accepting work, finishes the queued jobs and stops the
// workers. It is safe to call more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }
