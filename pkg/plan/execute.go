package plan

import (
	"context"
	"time"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/logging"
)

// Runner executes one planned run of a strategy
type Runner interface {
	Run(ctx context.Context, run RunPlan) (RunResult, error)
}

// RunnerFunc adapts a function to Runner
type RunnerFunc func(ctx context.Context, run RunPlan) (RunResult, error)

// Run calls f
func (f RunnerFunc) Run(ctx context.Context, run RunPlan) (RunResult, error) {
	return f(ctx, run)
}

// RunResult is what a run reports back
type RunResult struct {
	RunOrder          int                    `json:"run_order" yaml:"run_order"`
	Description       string                 `json:"run_description" yaml:"run_description"`
	TruePositiveRate  float64                `json:"true_positive_rate" yaml:"true_positive_rate"`
	FalsePositiveRate float64                `json:"false_positive_rate" yaml:"false_positive_rate"`
	Details           map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Duration          time.Duration          `json:"duration,format:nano" yaml:"duration"`
}

// Execute runs every run of p in order. It stops at the first failing run or
// when ctx is done, returning the results of the runs that completed.
func Execute(ctx context.Context, runner Runner, p *Plan) ([]RunResult, error) {
	logger := logging.GetLogger("plan").With().Str("strategy", p.Strategy.Name).Logger()
	defer logging.LogOperationStart(logger, "execute")()

	results := make([]RunResult, 0, len(p.Runs))
	for _, run := range p.Runs {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrapf(err, errors.ErrInternal, "strategy %s cancelled before run %d", p.Strategy.Name, run.RunOrder)
		}

		logger.Info().Int("run", run.RunOrder).Str("description", run.Description).Msg("Starting run")
		start := time.Now()
		res, err := runner.Run(ctx, run)
		if err != nil {
			logger.Error().Err(err).Int("run", run.RunOrder).Msg("Run failed")
			return results, errors.Wrapf(err, errors.ErrInternal, "strategy %s run %d failed", p.Strategy.Name, run.RunOrder).
				WithDetail("run", run.RunOrder)
		}

		res.RunOrder = run.RunOrder
		res.Description = run.Description
		res.Duration = time.Since(start)
		results = append(results, res)
	}
	return results, nil
}
