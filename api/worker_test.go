package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bridge-planner/optimizer"
)

// blockingPlanner holds every Optimize call until release is closed.
type blockingPlanner struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func newBlockingPlanner() *blockingPlanner {
	return &blockingPlanner{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (p *blockingPlanner) Optimize(ctx context.Context, prefs optimizer.Preferences) (*optimizer.Result, error) {
	p.started <- struct{}{}
	<-p.release
	if p.err != nil {
		return nil, p.err
	}
	return &optimizer.Result{PlanName: prefs.Country}, nil
}

func TestPlanWorker_SubmitReturnsResult(t *testing.T) {
	planner := newBlockingPlanner()
	close(planner.release)

	pw := NewPlanWorker(planner, 2, newTestLogger())
	pw.Start()
	defer pw.Stop()

	res, err := pw.Submit(context.Background(), optimizer.Preferences{Country: "Germany"})

	require.NoError(t, err)
	assert.Equal(t, "Germany", res.PlanName)
	assert.Equal(t, WorkerStats{Workers: 2, Completed: 1}, pw.Stats())
}

func TestPlanWorker_FailuresAreCounted(t *testing.T) {
	planner := newBlockingPlanner()
	planner.err = errors.New("boom")
	close(planner.release)

	pw := NewPlanWorker(planner, 1, newTestLogger())
	pw.Start()
	defer pw.Stop()

	_, err := pw.Submit(context.Background(), optimizer.Preferences{})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, int64(1), pw.Stats().Failed)
}

func TestPlanWorker_NotRunning(t *testing.T) {
	pw := NewPlanWorker(newBlockingPlanner(), 1, newTestLogger())

	_, err := pw.Submit(context.Background(), optimizer.Preferences{})
	assert.ErrorIs(t, err, ErrWorkerStopped)

	pw.Start()
	pw.Stop()
	pw.Stop()

	_, err = pw.Submit(context.Background(), optimizer.Preferences{})
	assert.ErrorIs(t, err, ErrWorkerStopped)
}

func TestPlanWorker_CancelledBeforeQueueing(t *testing.T) {
	planner := newBlockingPlanner()
	pw := NewPlanWorker(planner, 1, newTestLogger())
	pw.Start()
	defer func() {
		close(planner.release)
		pw.Stop()
	}()

	// GIVEN: The only worker is busy
	go pw.Submit(context.Background(), optimizer.Preferences{})
	<-planner.started

	// WHEN: A second caller gives up while waiting for a free worker
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := pw.Submit(ctx, optimizer.Preferences{})

	// THEN: It gets the context error and nothing is counted as abandoned
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(0), pw.Stats().Abandoned)
}

func TestPlanWorker_AbandonedJobStillCompletes(t *testing.T) {
	planner := newBlockingPlanner()
	pw := NewPlanWorker(planner, 1, newTestLogger())
	pw.Start()
	defer pw.Stop()

	// GIVEN: A job that is running
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := pw.Submit(ctx, optimizer.Preferences{})
		errCh <- err
	}()
	<-planner.started

	// WHEN: The caller goes away
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, int64(1), pw.Stats().Abandoned)

	// THEN: The worker finishes the job anyway
	close(planner.release)
	require.Eventually(t, func() bool {
		return pw.Stats().Completed == 1
	}, time.Second, 5*time.Millisecond)
}
