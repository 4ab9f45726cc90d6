// Package pipeline runs an ordered list of dependent steps. Each step must
// succeed before the next one starts; the first failure stops the run and
// nothing already done is undone.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step is one unit of work in a pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepFailure identifies the step that stopped a pipeline.
type StepFailure struct {
	Index int
	Name  string
	Err   error
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("pipeline step %d (%s) failed: %v", f.Index, f.Name, f.Err)
}

func (f *StepFailure) Unwrap() error { return f.Err }

// Result describes a pipeline run.
type Result struct {
	Executed []string
}

// Runner executes pipelines.
type Runner struct {
	logger *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for step progress.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunSequential executes steps in order and stops at the first failure,
// returning a *StepFailure. Result.Executed includes the failing step.
func (r *Runner) RunSequential(ctx context.Context, steps []Step) (Result, error) {
	var res Result
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("pipeline cancelled", zap.Int("step", i), zap.String("name", step.Name))
			return res, &StepFailure{Index: i, Name: step.Name, Err: err}
		}

		r.logger.Debug("running step", zap.Int("step", i), zap.String("name", step.Name))
		res.Executed = append(res.Executed, step.Name)

		if err := step.Run(ctx); err != nil {
			r.logger.Error("step failed", zap.Int("step", i), zap.String("name", step.Name), zap.Error(err))
			return res, &StepFailure{Index: i, Name: step.Name, Err: err}
		}
	}

	r.logger.Debug("pipeline complete", zap.Int("steps", len(steps)))
	return res, nil
}
