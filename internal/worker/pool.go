// Package worker provides a small generic pool used to run the independent
// sub-evaluations of one answer (content, vocal delivery, body language)
// concurrently while the submit call blocks for all of them.
package worker

import "context"

// Task produces one result. Tasks must not panic.
type Task[T any] func(ctx context.Context) T

// Result pairs a task's output with the ID it was submitted under.
type Result[T any] struct {
	ID     string
	Output T
}

// Pool runs tasks on a fixed number of goroutines.
type Pool[T any] struct {
	tasks   chan taskWrapper[T]
	results chan Result[T]
}

type taskWrapper[T any] struct {
	ctx context.Context
	id  string
	fn  Task[T]
}

// NewPool starts workerCount workers with the given channel buffer.
func NewPool[T any](workerCount, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		tasks:   make(chan taskWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool[T]) worker() {
	for t := range p.tasks {
		p.results <- Result[T]{ID: t.id, Output: t.fn(t.ctx)}
	}
}

// Submit queues a task. Blocks when the buffer is full.
func (p *Pool[T]) Submit(ctx context.Context, id string, fn Task[T]) {
	p.tasks <- taskWrapper[T]{ctx: ctx, id: id, fn: fn}
}

// Results returns the channel task outputs arrive on, in completion order.
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops the workers once queued tasks finish. Submit must not be
// called after Close.
func (p *Pool[T]) Close() {
	close(p.tasks)
}
