// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	framequeue "github.com/okian/tiki/internal/adapters/mq/queue"
	workerpool "github.com/okian/tiki/internal/adapters/mq/worker"
	repository "github.com/okian/tiki/internal/adapters/repository"
	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/execute"
	"github.com/okian/tiki/internal/domain/gaps"
	"github.com/okian/tiki/internal/domain/intercept"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/predict"
	"github.com/okian/tiki/internal/domain/rules"
	"github.com/okian/tiki/internal/domain/state"
	"github.com/okian/tiki/internal/domain/zones"
	"github.com/okian/tiki/pkg/logger"
	"github.com/okian/tiki/pkg/metrics"
)

// Service wires the decision engine, executor, frame pipeline, and moment
// ranking behind one façade for the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	grid       *zones.Grid
	engine     *engine.Engine
	executor   *execute.Executor
	moments    repository.Store
	frameQueue framequeue.Queue
	workerPool *workerpool.Pool

	// Configuration
	dims             pitch.Dimensions
	gridCols         int
	gridRows         int
	minGapSize       float64
	gapTimeHorizon   float64
	gapExploitMargin float64
	groundBallSpeed  float64
	airBallSpeed     float64
	evHigh           float64
	evSafe           float64
	shotRange        float64
	dribbleStep      float64
	optionFilterSrc  string
	workerCount      int
	queueSize        int
	maxMomentsLimit  int
	maxSimSteps      int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPitch sets the playing surface dimensions in meters.
func WithPitch(length, width float64) Option {
	return func(s *Service) {
		if length > 0 && width > 0 {
			s.dims = pitch.Dimensions{Length: length, Width: width}
		}
	}
}

// WithGridResolution sets the zone-value grid resolution.
func WithGridResolution(cols, rows int) Option {
	return func(s *Service) {
		if cols > 0 && rows > 0 {
			s.gridCols = cols
			s.gridRows = rows
		}
	}
}

// WithGapSettings configures the defensive gap detector.
func WithGapSettings(minSize, timeHorizon, exploitMargin float64) Option {
	return func(s *Service) {
		if minSize > 0 {
			s.minGapSize = minSize
		}
		if timeHorizon > 0 {
			s.gapTimeHorizon = timeHorizon
		}
		if exploitMargin > 0 {
			s.gapExploitMargin = exploitMargin
		}
	}
}

// WithBallSpeeds configures the interception model's ball speeds, m/s.
func WithBallSpeeds(ground, air float64) Option {
	return func(s *Service) {
		if ground > 0 {
			s.groundBallSpeed = ground
		}
		if air > 0 {
			s.airBallSpeed = air
		}
	}
}

// WithEVThresholds sets the recommendation thresholds.
func WithEVThresholds(high, safe float64) Option {
	return func(s *Service) {
		if high > 0 {
			s.evHigh = high
		}
		if safe > 0 {
			s.evSafe = safe
		}
	}
}

// WithShotRange sets the maximum shooting distance in meters.
func WithShotRange(meters float64) Option {
	return func(s *Service) {
		if meters > 0 {
			s.shotRange = meters
		}
	}
}

// WithDribbleStep sets the candidate carry length in meters.
func WithDribbleStep(meters float64) Option {
	return func(s *Service) {
		if meters > 0 {
			s.dribbleStep = meters
		}
	}
}

// WithOptionFilter sets the option-filter expression. Empty disables it.
func WithOptionFilter(src string) Option {
	return func(s *Service) {
		s.optionFilterSrc = src
	}
}

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the frame queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxMomentsLimit caps the moments listing endpoint.
func WithMaxMomentsLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxMomentsLimit = limit
		}
	}
}

// WithMaxSimulationSteps caps the length of a simulation run.
func WithMaxSimulationSteps(steps int) Option {
	return func(s *Service) {
		if steps > 0 {
			s.maxSimSteps = steps
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dims:             pitch.Standard(),
		gridCols:         zones.DefaultCols,
		gridRows:         zones.DefaultRows,
		minGapSize:       gaps.DefaultMinGapSize,
		gapTimeHorizon:   gaps.DefaultTimeHorizon,
		gapExploitMargin: gaps.DefaultExploitMargin,
		groundBallSpeed:  intercept.DefaultGroundSpeed,
		airBallSpeed:     intercept.DefaultAirSpeed,
		evHigh:           engine.DefaultEVHighThreshold,
		evSafe:           engine.DefaultEVSafeThreshold,
		shotRange:        engine.DefaultShotRange,
		dribbleStep:      predict.DefaultDribbleStep,
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		maxMomentsLimit:  100,
		maxSimSteps:      execute.DefaultMaxSteps,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting tactical analysis service...")

	s.grid = zones.New(
		zones.WithDimensions(s.dims),
		zones.WithResolution(s.gridCols, s.gridRows),
	)

	interceptModel := intercept.NewModel(
		intercept.WithGroundSpeed(s.groundBallSpeed),
		intercept.WithAirSpeed(s.airBallSpeed),
	)
	detector := gaps.NewDetector(
		gaps.WithMinGapSize(s.minGapSize),
		gaps.WithTimeHorizon(s.gapTimeHorizon),
		gaps.WithExploitMargin(s.gapExploitMargin),
	)

	engineOpts := []engine.Option{
		engine.WithGapDetector(detector),
		engine.WithInterceptModel(interceptModel),
		engine.WithDribbleModel(predict.NewDribbleModel(s.dims, predict.WithDribbleStep(s.dribbleStep))),
		engine.WithEVThresholds(s.evHigh, s.evSafe),
		engine.WithShotRange(s.shotRange),
	}
	if s.optionFilterSrc != "" {
		filter, err := rules.Compile(s.optionFilterSrc)
		if err != nil {
			return fmt.Errorf("invalid option filter: %w", err)
		}
		engineOpts = append(engineOpts, engine.WithOptionFilter(filter))
		s.logger.Info(ctx, "option filter active", logger.String("filter", s.optionFilterSrc))
	}
	s.engine = engine.New(s.grid, engineOpts...)
	s.executor = execute.NewExecutor(s.dims)

	s.moments = repository.NewTreapStore(ctx)
	s.frameQueue = framequeue.NewInMemoryQueue(
		framequeue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.frameQueue, s.engine, s.moments)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "tactical analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Float64("pitchLength", s.dims.Length),
		logger.Float64("pitchWidth", s.dims.Width),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping tactical analysis service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	if s.moments != nil {
		if closer, ok := s.moments.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	if q, ok := s.frameQueue.(*framequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "tactical analysis service stopped")
}

// Analyze runs the decision engine over one snapshot synchronously.
func (s *Service) Analyze(ctx context.Context, snap state.Snapshot) (engine.Analysis, error) {
	if err := snap.Validate(); err != nil {
		metrics.RecordErrorByComponent("service", "invalid_snapshot")
		return engine.Analysis{}, err
	}

	start := time.Now()
	analysis := s.engine.Analyze(ctx, snap)
	metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordFrameAnalyzed()
	metrics.RecordOptionsGenerated(analysis.TotalOptions)
	metrics.RecordGapsDetected(len(analysis.Gaps))

	return analysis, nil
}

// Simulate runs the evaluate-decide-execute loop from a snapshot.
func (s *Service) Simulate(ctx context.Context, snap state.Snapshot, maxSteps int, stopOnGoal, stopOnPossessionLoss bool) ([]execute.Step, error) {
	if maxSteps <= 0 || maxSteps > s.maxSimSteps {
		maxSteps = s.maxSimSteps
	}

	loop := execute.NewLoop(s.engine, s.executor,
		execute.WithMaxSteps(maxSteps),
		execute.WithStopOnGoal(stopOnGoal),
		execute.WithStopOnPossessionLoss(stopOnPossessionLoss),
	)

	steps, err := loop.Run(ctx, snap)
	if err != nil {
		metrics.RecordErrorByComponent("service", "simulation_error")
		return nil, err
	}

	for _, step := range steps {
		metrics.RecordSimulationStep()
		switch step.Result.Outcome {
		case execute.OutcomeGoal:
			metrics.RecordGoalScored()
		case execute.OutcomeIntercepted, execute.OutcomeBlocked, execute.OutcomeOutOfBounds:
			metrics.RecordPossessionLoss()
		}
	}

	return steps, nil
}

// EnqueueFrame submits a frame for asynchronous analysis. Returns false
// when the queue is full.
func (s *Service) EnqueueFrame(ctx context.Context, frame state.Frame) bool {
	ok := s.frameQueue.Enqueue(ctx, frame)
	if ok {
		metrics.UpdateQueueSize(s.frameQueue.Len(ctx))
	}
	return ok
}

// TopMoments returns the top N ranked key moments.
func (s *Service) TopMoments(ctx context.Context, n int) ([]repository.Moment, error) {
	return s.moments.TopN(ctx, n)
}

// MomentRank returns the rank entry for a single frame.
func (s *Service) MomentRank(ctx context.Context, frameID string) (repository.Moment, error) {
	return s.moments.Rank(ctx, frameID)
}

// MaxMomentsLimit returns the configured cap for moments listings.
func (s *Service) MaxMomentsLimit() int {
	return s.maxMomentsLimit
}

// Stats is a point-in-time operational snapshot of the service. Queue
// length and moments tracked read zero until the service has started.
type Stats struct {
	Started        bool
	WorkerCount    int
	QueueCapacity  int
	QueueLength    int
	MomentsTracked int
}

// GetStats returns a statistics snapshot for monitoring and refreshes the
// operational gauges as a side effect.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := Stats{
		Started:       s.started,
		WorkerCount:   s.workerCount,
		QueueCapacity: s.queueSize,
	}

	if s.started {
		stats.QueueLength = s.frameQueue.Len(ctx)
		stats.MomentsTracked = s.moments.Count(ctx)

		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateMomentsTracked(stats.MomentsTracked)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
