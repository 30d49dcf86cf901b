package batch

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/internal/logger"
)

// TaskHandler analyzes one task on behalf of a worker
type TaskHandler func(workerID int, task ImageTask) Outcome

// WorkerState is the lifecycle of a single worker
type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerRunning
	WorkerTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("worker_state(%d)", int32(s))
	}
}

// PoolState is the lifecycle of the pool as a whole
type PoolState int32

const (
	PoolIdle PoolState = iota
	PoolRunning
	// PoolDraining once every sentinel is enqueued
	PoolDraining
	// PoolJoined once every worker has terminated
	PoolJoined
)

func (s PoolState) String() string {
	switch s {
	case PoolIdle:
		return "idle"
	case PoolRunning:
		return "running"
	case PoolDraining:
		return "draining"
	case PoolJoined:
		return "joined"
	default:
		return fmt.Sprintf("pool_state(%d)", int32(s))
	}
}

// WorkerStats holds the per-worker counters
type WorkerStats struct {
	ID        int
	State     WorkerState
	Processed int64
	Skipped   int64
	Sentinels int64
}

// PoolStats is a snapshot of the pool counters
type PoolStats struct {
	State         PoolState
	Workers       []WorkerStats
	TotalJobs     int64
	CompletedJobs int64
	SkippedJobs   int64
	ActiveWorkers int64
}

type workerCounters struct {
	state     atomic.Int32
	processed atomic.Int64
	skipped   atomic.Int64
	sentinels atomic.Int64
}

// WorkerPool runs a fixed number of workers over a shared WorkQueue and
// publishes every outcome to a ResultSink.
type WorkerPool struct {
	workers   int
	queue     *WorkQueue
	sink      *ResultSink
	handler   TaskHandler
	group     errgroup.Group
	startOnce sync.Once
	closeOnce sync.Once
	state     atomic.Int32
	counters  []workerCounters

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	skippedJobs   atomic.Int64
	activeWorkers atomic.Int64
}

// NewWorkerPool creates a pool of the given size. workers <= 0 selects
// runtime.NumCPU().
func NewWorkerPool(workers int, queue *WorkQueue, sink *ResultSink, handler TaskHandler) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		queue:    queue,
		sink:     sink,
		handler:  handler,
		counters: make([]workerCounters, workers),
	}
}

// Workers returns the pool size
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start spawns the workers. Further calls do nothing.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		wp.state.Store(int32(PoolRunning))
		for i := 0; i < wp.workers; i++ {
			id := i
			wp.counters[id].state.Store(int32(WorkerRunning))
			wp.group.Go(func() error {
				wp.worker(id)
				return nil
			})
		}
	})
}

// worker consumes items until it receives its shutdown signal
func (wp *WorkerPool) worker(id int) {
	c := &wp.counters[id]
	for {
		switch item := wp.queue.Dequeue().(type) {
		case ShutdownSignal:
			c.sentinels.Add(1)
			c.state.Store(int32(WorkerTerminated))
			logger.WithField("worker", id).Debug("Worker received shutdown signal")
			return
		case ImageTask:
			wp.activeWorkers.Add(1)
			outcome := wp.process(id, item)
			wp.activeWorkers.Add(-1)

			if outcome.Skipped() {
				c.skipped.Add(1)
				wp.skippedJobs.Add(1)
			} else {
				c.processed.Add(1)
			}
			wp.completedJobs.Add(1)
			wp.sink.Publish(outcome)
		}
	}
}

// process runs the handler, turning a panic into a skipped outcome so the
// worker keeps going.
func (wp *WorkerPool) process(id int, task ImageTask) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			logger.WithFields(logrus.Fields{
				"worker": id,
				"image":  task.Path,
				"panic":  r,
			}).Error("Worker recovered from panic")
			outcome = Outcome{
				Task:   task,
				Worker: id,
				Err: apperrors.NewInternalError(
					fmt.Sprintf("worker panic: %v\nstack trace:\n%s", r, buf[:n]), nil,
				).WithImage(task.Path),
			}
		}
	}()

	outcome = wp.handler(id, task)
	outcome.Task = task
	outcome.Worker = id
	return outcome
}

// Submit enqueues a task without blocking. Submit and Close are called from
// the producer goroutine; submitting after Close returns false.
func (wp *WorkerPool) Submit(task ImageTask) bool {
	if PoolState(wp.state.Load()) >= PoolDraining {
		return false
	}
	wp.totalJobs.Add(1)
	wp.queue.Enqueue(task)
	return true
}

// Close enqueues exactly one shutdown signal per worker. Tasks submitted
// earlier are still processed since the queue is FIFO.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		wp.state.Store(int32(PoolDraining))
		for i := 0; i < wp.workers; i++ {
			wp.queue.Enqueue(ShutdownSignal{})
		}
	})
}

// Wait blocks until every worker has terminated. It must follow Close.
func (wp *WorkerPool) Wait() {
	_ = wp.group.Wait()
	wp.state.Store(int32(PoolJoined))
}

// GetStats returns a snapshot of the pool counters
func (wp *WorkerPool) GetStats() PoolStats {
	stats := PoolStats{
		State:         PoolState(wp.state.Load()),
		Workers:       make([]WorkerStats, wp.workers),
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		SkippedJobs:   wp.skippedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
	}
	for i := range wp.counters {
		c := &wp.counters[i]
		stats.Workers[i] = WorkerStats{
			ID:        i,
			State:     WorkerState(c.state.Load()),
			Processed: c.processed.Load(),
			Skipped:   c.skipped.Load(),
			Sentinels: c.sentinels.Load(),
		}
	}
	return stats
}
