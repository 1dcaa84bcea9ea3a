package execute

import (
	"context"

	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/state"
)

// DefaultMaxSteps bounds a simulation run when no limit is configured.
const DefaultMaxSteps = 20

// Step records one evaluate-decide-execute iteration of a run.
type Step struct {
	Before   state.Snapshot
	Analysis engine.Analysis
	Option   engine.ProgressionOption
	Result   Result
}

// Loop drives repeated analysis and execution over a snapshot sequence:
// analyze the state, execute the best option, feed the result back in.
type Loop struct {
	engine   *engine.Engine
	executor *Executor

	maxSteps             int
	stopOnGoal           bool
	stopOnPossessionLoss bool
}

// LoopOption applies a configuration option to the Loop.
type LoopOption func(*Loop)

// WithMaxSteps bounds the number of iterations of a run.
func WithMaxSteps(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.maxSteps = n
		}
	}
}

// WithStopOnGoal ends the run at the first goal instead of restarting play.
func WithStopOnGoal(stop bool) LoopOption {
	return func(l *Loop) {
		l.stopOnGoal = stop
	}
}

// WithStopOnPossessionLoss ends the run when the attacking side loses the
// ball instead of continuing with the sides swapped.
func WithStopOnPossessionLoss(stop bool) LoopOption {
	return func(l *Loop) {
		l.stopOnPossessionLoss = stop
	}
}

// NewLoop builds a loop over an engine and executor.
func NewLoop(eng *engine.Engine, exec *Executor, opts ...LoopOption) *Loop {
	l := &Loop{
		engine:   eng,
		executor: exec,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run simulates from snap until a stop condition fires, the option list
// empties, or the step limit is reached. The recorded steps replay the run
// exactly; the same snapshot always produces the same steps.
func (l *Loop) Run(ctx context.Context, snap state.Snapshot) ([]Step, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	steps := make([]Step, 0, l.maxSteps)
	current := snap
	for i := 0; i < l.maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		analysis := l.engine.Analyze(ctx, current)
		if analysis.Best == nil {
			break
		}

		result, err := l.executor.Execute(ctx, current, *analysis.Best)
		if err != nil {
			return steps, err
		}
		steps = append(steps, Step{
			Before:   current,
			Analysis: analysis,
			Option:   *analysis.Best,
			Result:   result,
		})

		if result.Outcome == OutcomeGoal && l.stopOnGoal {
			break
		}
		if !result.Possession() && l.stopOnPossessionLoss {
			break
		}
		current = result.After
	}
	return steps, nil
}
