package orders

import (
	"context"
	"log"
	"time"
)

// Generator produces the deliverable payload for an order. The research
// pipeline is the production implementation.
type Generator interface {
	Generate(ctx context.Context, o Order) (string, error)
}

// Worker runs deliverable generation off the request path. Jobs are
// fire-and-forget: completion is observed only through order state, and
// generation errors are recorded on the order rather than dropped.
type Worker struct {
	store   *Store
	gen     Generator
	timeout time.Duration

	jobs   chan string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWorker creates a worker with a bounded job queue.
func NewWorker(store *Store, gen Generator, queueSize int, timeout time.Duration) *Worker {
	if queueSize <= 0 {
		queueSize = 32
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Worker{
		store:   store,
		gen:     gen,
		timeout: timeout,
		jobs:    make(chan string, queueSize),
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		for {
			select {
			case <-runCtx.Done():
				return
			case id := <-w.jobs:
				w.process(runCtx, id)
			}
		}
	}()
	return nil
}

// Stop halts the worker and waits for the in-flight job to finish or
// the context to expire.
func (w *Worker) Stop(ctx context.Context) {
	if w.cancel == nil {
		return
	}
	w.cancel()
	select {
	case <-w.done:
	case <-ctx.Done():
	}
}

// Enqueue schedules generation for an order. Returns false when the
// queue is full; the order then stays in_progress with no deliverable.
func (w *Worker) Enqueue(orderID string) bool {
	select {
	case w.jobs <- orderID:
		return true
	default:
		log.Printf("orders: generation queue full, dropping job for %s", orderID)
		return false
	}
}

func (w *Worker) process(ctx context.Context, id string) {
	o, err := w.store.Get(id)
	if err != nil {
		log.Printf("orders: generation job for unknown order %s", id)
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	payload, err := w.gen.Generate(genCtx, o)
	if err != nil {
		log.Printf("orders: generation failed for %s: %v", id, err)
		w.store.RecordFailure(id, err)
		return
	}

	if err := w.store.SetDeliverable(id, payload); err != nil {
		log.Printf("orders: attach deliverable for %s: %v", id, err)
		return
	}
	log.Printf("orders: order %s ready for delivery", id)
}
