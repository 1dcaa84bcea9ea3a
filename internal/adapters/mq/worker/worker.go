// Package worker runs the asynchronous analysis pipeline: frames come off
// the queue, go through the decision engine, and the dangerous ones are
// recorded as key moments.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/tiki/internal/adapters/mq/queue"
	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/state"
	"github.com/okian/tiki/pkg/logger"
	"github.com/okian/tiki/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Frame abstracts what workers read off the queue.
type Frame = queue.Frame

// Analyzer evaluates one snapshot into ranked progression options.
type Analyzer interface {
	Analyze(ctx context.Context, snap state.Snapshot) engine.Analysis
}

// Recorder keeps the best analysis result per frame. The danger value is
// the expected value of the frame's best option.
type Recorder interface {
	RecordMoment(ctx context.Context, frameID string, danger, timestamp float64, action string, optionCount int) (bool, error)
}

// Queue defines how workers receive frames.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Frame
}

// Worker processes frames until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker. It processes any in-flight
	// frame before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over the in-process queue.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	recorder Recorder
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: analyzer,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	frames := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := w.processFrame(ctx, frame); err != nil {
				w.logger.Error(ctx, "error processing frame", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processFrame analyzes a single frame and records it when the analysis
// produced a best option.
func (w *InMemoryWorker) processFrame(ctx context.Context, frame Frame) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := frame.Snapshot.Validate(); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "invalid_frame")
		w.logger.Warn(ctx, "dropping invalid frame",
			logger.String("frameID", frame.ID),
			logger.Error(err),
		)
		return fmt.Errorf("invalid frame %s: %w", frame.ID, err)
	}

	analysisStart := time.Now()
	analysis := w.analyzer.Analyze(ctx, frame.Snapshot)
	metrics.RecordAnalysisLatency(float64(time.Since(analysisStart).Milliseconds()))
	metrics.RecordFrameAnalyzed()

	if analysis.Best == nil {
		// Nothing the carrier can do with this frame; not a moment.
		return nil
	}

	updated, err := w.recorder.RecordMoment(ctx,
		frame.ID,
		analysis.Best.ExpectedValue,
		analysis.Timestamp,
		string(analysis.Best.Kind),
		analysis.TotalOptions,
	)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "record_error")
		w.logger.Error(ctx, "moment record failed for frame",
			logger.String("frameID", frame.ID),
			logger.Error(err),
		)
		return fmt.Errorf("record moment for frame %s: %w", frame.ID, err)
	}

	if updated {
		metrics.RecordMomentUpdate()
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	analyzer Analyzer
	recorder Recorder

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count sizes the pool
// from the CPU count.
func NewPool(workerCount int, q Queue, analyzer Analyzer, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		analyzer: analyzer,
		recorder: recorder,
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			analyzer,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)

	return nil
}
