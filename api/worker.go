/*
worker.go - Background plan computation

PURPOSE:
  Runs optimizations on a fixed pool of goroutines so that request
  handlers never run the candidate scan themselves, and a burst of
  requests cannot start more scans than there are workers.

DESIGN:
  - Jobs go through an unbuffered channel to Workers goroutines
  - Each job carries a reply channel with room for one answer
  - A caller whose context ends stops waiting; the worker still finishes
    and its reply is dropped into the buffer and discarded
  - The optimizer's own cache is shared by all workers

CONFIGURATION:
  - Workers: Number of goroutines (default: 4)

USAGE:
  worker := NewPlanWorker(opt, 4, logger)
  worker.Start()
  res, err := worker.Submit(ctx, prefs)
  // ... later
  worker.Stop()

SEE ALSO:
  - handlers.go: CreatePlan, RunScenario
  - optimizer/optimizer.go: Optimize
*/
package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/warp/bridge-planner/optimizer"
)

// ErrWorkerStopped is returned by Submit when the pool is not running.
var ErrWorkerStopped = errors.New("plan worker is not running")

// Planner is what the worker runs jobs against.
type Planner interface {
	Optimize(ctx context.Context, prefs optimizer.Preferences) (*optimizer.Result, error)
}

// PlanWorker is a fixed-size optimization pool.
type PlanWorker struct {
	Planner Planner
	Workers int
	Logger  logrus.FieldLogger

	jobs    chan planJob
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	completed atomic.Int64
	failed    atomic.Int64
	abandoned atomic.Int64
}

type planJob struct {
	prefs optimizer.Preferences
	reply chan planReply
}

type planReply struct {
	result *optimizer.Result
	err    error
}

// WorkerStats counts finished jobs.
type WorkerStats struct {
	Workers   int   `json:"workers"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Abandoned int64 `json:"abandoned"`
}

// NewPlanWorker creates a stopped pool. workers <= 0 means 1.
func NewPlanWorker(planner Planner, workers int, logger logrus.FieldLogger) *PlanWorker {
	if workers <= 0 {
		workers = 1
	}
	return &PlanWorker{
		Planner: planner,
		Workers: workers,
		Logger:  logger,
		jobs:    make(chan planJob),
	}
}

// Start launches the goroutines. Starting a running pool does nothing.
func (pw *PlanWorker) Start() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return
	}
	pw.stop = make(chan struct{})
	pw.running = true

	for i := 0; i < pw.Workers; i++ {
		pw.wg.Add(1)
		go pw.run(i, pw.stop)
	}

	pw.Logger.WithField("workers", pw.Workers).Info("plan worker started")
}

// Stop waits for in-flight jobs and stops the goroutines.
func (pw *PlanWorker) Stop() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return
	}
	close(pw.stop)
	pw.wg.Wait()
	pw.running = false

	pw.Logger.Info("plan worker stopped")
}

// Submit queues prefs and waits for the result. When ctx ends first, Submit
// returns ctx.Err() and the eventual result is discarded.
func (pw *PlanWorker) Submit(ctx context.Context, prefs optimizer.Preferences) (*optimizer.Result, error) {
	pw.mu.Lock()
	stop, running := pw.stop, pw.running
	pw.mu.Unlock()
	if !running {
		return nil, ErrWorkerStopped
	}

	job := planJob{prefs: prefs, reply: make(chan planReply, 1)}

	select {
	case pw.jobs <- job:
	case <-stop:
		return nil, ErrWorkerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-job.reply:
		return r.result, r.err
	case <-ctx.Done():
		pw.abandoned.Add(1)
		return nil, ctx.Err()
	}
}

// Stats returns the job counters.
func (pw *PlanWorker) Stats() WorkerStats {
	return WorkerStats{
		Workers:   pw.Workers,
		Completed: pw.completed.Load(),
		Failed:    pw.failed.Load(),
		Abandoned: pw.abandoned.Load(),
	}
}

func (pw *PlanWorker) run(id int, stop <-chan struct{}) {
	defer pw.wg.Done()

	for {
		select {
		case job := <-pw.jobs:
			pw.process(id, job)
		case <-stop:
			return
		}
	}
}

func (pw *PlanWorker) process(id int, job planJob) {
	// The caller may be gone; the computation still fills the result cache.
	res, err := pw.Planner.Optimize(context.Background(), job.prefs)
	if err != nil {
		pw.failed.Add(1)
		pw.Logger.WithError(err).WithField("worker", id).Error("plan failed")
	} else {
		pw.completed.Add(1)
	}
	job.reply <- planReply{result: res, err: err}
}
