package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boardlens/boardlens/internal/game"
	"github.com/boardlens/boardlens/internal/logger"
)

const (
	queueDepth     = 64
	requestCeiling = 5 * time.Second
)

var (
	errTimeout   = errors.New("snapshot processing timed out")
	errQueueFull = errors.New("snapshot queue full")
)

type job struct {
	snap game.Snapshot
	done chan jobResult // buffered: the worker never blocks on a gone caller
}

type jobResult struct {
	res       *game.Result
	broadcast int
	err       error
}

// Worker drives the single-threaded solver. All pipeline state is touched
// only from Run's goroutine, so the stages need no locks.
type Worker struct {
	pipeline *game.Pipeline
	publish  func(*game.Result) int
	jobs     chan job
}

func NewWorker(p *game.Pipeline) *Worker {
	return &Worker{pipeline: p, jobs: make(chan job, queueDepth)}
}

// SetPublish registers the broadcast step. It runs on the worker goroutine
// right after each snapshot settles, so observers see results in processing
// order no matter how the posting handlers interleave. Must be set before
// Run starts.
func (w *Worker) SetPublish(fn func(*game.Result) int) { w.publish = fn }

// Run processes jobs until ctx is cancelled, then flushes the event log.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.pipeline.Flush()
			return ctx.Err()
		case j := <-w.jobs:
			j.done <- w.process(j.snap)
		}
	}
}

func (w *Worker) process(snap game.Snapshot) (out jobResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("solver panic", "err", r)
			out = jobResult{err: fmt.Errorf("solver: %v", r)}
		}
	}()
	out = jobResult{res: w.pipeline.Process(snap)}
	if w.publish != nil {
		out.broadcast = w.publish(out.res)
	}
	return out
}

// Submit enqueues a snapshot and waits for its result and broadcast count.
// The wait is bounded by requestCeiling, not by the caller's context: a
// disconnected client must not cancel processing, its result is simply
// discarded.
func (w *Worker) Submit(snap game.Snapshot) (*game.Result, int, error) {
	j := job{snap: snap, done: make(chan jobResult, 1)}
	timer := time.NewTimer(requestCeiling)
	defer timer.Stop()

	select {
	case w.jobs <- j:
	case <-timer.C:
		return nil, 0, errQueueFull
	}
	select {
	case r := <-j.done:
		return r.res, r.broadcast, r.err
	case <-timer.C:
		return nil, 0, errTimeout
	}
}
