// Package orchestrator enforces at-most-one concurrent build and runs
// an optional periodic incremental build scheduler on top of a
// Builder. It tracks every goroutine it spawns so that Stop can join
// them instead of leaving them detached.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/buildaudit"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/buildevents"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/builder"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
)

// LastRun describes the most recently completed build.
type LastRun struct {
	Mode    string
	Dataset string
	Threads int
	Result  builder.Result
	Error   string
}

// StartStatus is the outcome of a StartBuild call.
type StartStatus string

const (
	StatusStarted        StartStatus = "started"
	StatusAlreadyRunning StartStatus = "already_running"
)

// Orchestrator owns the at-most-one-concurrent-build latch, the last
// completed result, and an optional scheduler goroutine that triggers
// periodic incremental builds.
type Orchestrator struct {
	build *builder.Builder

	events  *buildevents.Publisher
	audit   *buildaudit.Log
	metrics *metrics.Metrics

	running   atomic.Bool
	hasResult atomic.Bool

	mu   sync.Mutex
	last LastRun

	datasetPath  atomic.Value // string
	buildThreads atomic.Int64

	schedulerEnabled    atomic.Bool
	schedulerIntervalS  atomic.Int64
	stopScheduler       chan struct{}
	schedulerDone       chan struct{}
	schedulerStartOnce  sync.Once

	wg     sync.WaitGroup
	logger *slog.Logger
}

// New builds an Orchestrator around build. events and audit may be nil
// (or disabled), in which case build completion is simply not
// published/recorded externally. m may be nil to disable build metrics.
func New(build *builder.Builder, events *buildevents.Publisher, audit *buildaudit.Log, m *metrics.Metrics, datasetPath string, buildThreads, schedulerIntervalS int, schedulerEnabled bool) *Orchestrator {
	o := &Orchestrator{
		build:         build,
		events:        events,
		audit:         audit,
		metrics:       m,
		stopScheduler: make(chan struct{}),
		schedulerDone: make(chan struct{}),
		logger:        slog.Default().With("component", "orchestrator"),
	}
	o.datasetPath.Store(datasetPath)
	o.buildThreads.Store(int64(buildThreads))
	o.schedulerIntervalS.Store(int64(schedulerIntervalS))
	o.schedulerEnabled.Store(schedulerEnabled)
	return o
}

// DatasetPath returns the current default dataset path.
func (o *Orchestrator) DatasetPath() string {
	return o.datasetPath.Load().(string)
}

// BuildThreads returns the current default thread count.
func (o *Orchestrator) BuildThreads() int {
	return int(o.buildThreads.Load())
}

// Building reports whether a build is currently in flight.
func (o *Orchestrator) Building() bool {
	return o.running.Load()
}

// SchedulerState reports the current scheduler enablement and interval.
func (o *Orchestrator) SchedulerState() (enabled bool, intervalS int) {
	return o.schedulerEnabled.Load(), int(o.schedulerIntervalS.Load())
}

// SetScheduler updates the scheduler's enabled flag and interval. A
// running scheduler loop observes the new values on its next wake.
func (o *Orchestrator) SetScheduler(enabled bool, intervalS int) {
	if intervalS > 0 {
		o.schedulerIntervalS.Store(int64(intervalS))
	}
	o.schedulerEnabled.Store(enabled)
}

// LastResult returns the most recently completed build and whether one
// has ever completed.
func (o *Orchestrator) LastResult() (LastRun, bool) {
	if !o.hasResult.Load() {
		return LastRun{}, false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last, true
}

// StartBuild attempts to begin a build run. If one is already running
// it returns StatusAlreadyRunning without any side effect. Otherwise it
// updates the orchestrator's default dataset/threads, spawns a tracked
// goroutine to run the build, and returns StatusStarted immediately —
// the caller does not block on build completion.
func (o *Orchestrator) StartBuild(datasetPath string, threads int, incremental bool) StartStatus {
	if threads <= 0 {
		threads = 1
	}

	if !o.running.CompareAndSwap(false, true) {
		return StatusAlreadyRunning
	}

	o.datasetPath.Store(datasetPath)
	o.buildThreads.Store(int64(threads))
	o.hasResult.Store(false)

	o.wg.Add(1)
	go o.runBuild(datasetPath, threads, incremental)

	return StatusStarted
}

func (o *Orchestrator) runBuild(datasetPath string, threads int, incremental bool) {
	defer o.wg.Done()
	defer o.running.Store(false)

	mode := "build"
	if incremental {
		mode = "update"
	}
	startedAt := time.Now()
	o.logger.Info("build job started", "mode", mode, "dataset", datasetPath, "threads", threads)

	var res builder.Result
	var errText string
	func() {
		defer func() {
			if r := recover(); r != nil {
				errText = "build task panicked"
				o.logger.Error("build job panicked", "panic", r)
			}
		}()
		if incremental {
			res = o.build.UpdateFromDirectory(datasetPath, threads)
		} else {
			res = o.build.BuildFromDirectory(datasetPath, threads)
		}
	}()

	o.mu.Lock()
	o.last = LastRun{Mode: mode, Dataset: datasetPath, Threads: threads, Result: res, Error: errText}
	o.mu.Unlock()
	o.hasResult.Store(true)

	if errText != "" {
		o.logger.Error("build job finished with error", "error", errText)
	} else {
		o.logger.Info("build job finished", "indexed", res.IndexedFiles, "skipped", res.SkippedFiles, "errors", res.Errors)
	}

	var buildErr error
	if errText != "" {
		buildErr = errors.New(errText)
	}
	if o.events.Enabled() {
		o.events.PublishBuildCompleted(context.Background(), mode, datasetPath, threads, &res, buildErr, startedAt)
	}
	if o.audit.Enabled() {
		o.audit.Record(context.Background(), mode, datasetPath, threads, &res, buildErr, startedAt)
	}
	o.recordBuildMetrics(mode, res, errText)
}

func (o *Orchestrator) recordBuildMetrics(mode string, res builder.Result, errText string) {
	if o.metrics == nil {
		return
	}
	status := "ok"
	if errText != "" {
		status = "error"
	}
	o.metrics.IncBuildRun(mode, status)
	o.metrics.ObserveBuildElapsed(res.ElapsedMs)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if stats, err := o.build.Index().Stats(ctx); err == nil {
		o.metrics.SetIndexStats(stats)
	}
}

// StartScheduler launches the periodic incremental-build loop if it
// has not already been started. The loop sleeps schedulerIntervalS
// seconds between wake-ups; Stop interrupts that sleep, so the loop
// exits as soon as the stop signal arrives.
func (o *Orchestrator) StartScheduler() {
	o.schedulerStartOnce.Do(func() {
		o.wg.Add(1)
		go o.schedulerLoop()
	})
}

func (o *Orchestrator) schedulerLoop() {
	defer o.wg.Done()
	defer close(o.schedulerDone)

	for {
		interval := time.Duration(o.schedulerIntervalS.Load()) * time.Second
		if interval <= 0 {
			interval = time.Second
		}

		timer := time.NewTimer(interval)
		select {
		case <-o.stopScheduler:
			timer.Stop()
			return
		case <-timer.C:
		}

		select {
		case <-o.stopScheduler:
			return
		default:
		}

		if !o.schedulerEnabled.Load() {
			continue
		}
		dataset := o.DatasetPath()
		if dataset == "" {
			continue
		}
		if o.running.Load() {
			continue
		}

		o.StartBuild(dataset, o.BuildThreads(), true)
	}
}

// Stop signals the scheduler loop to exit and waits for it and any
// in-flight build to finish. It is safe to call even if the scheduler
// was never started.
func (o *Orchestrator) Stop(ctx context.Context) error {
	close(o.stopScheduler)

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
