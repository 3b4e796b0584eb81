// Package runner drives a simulation forward one tick at a time and decides when to
// stop: on convergence, after a maximum number of ticks, or when the context ends.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/TFMV/springy/logger"
)

// Simulation is anything that can be advanced by a time increment and report how far
// it moved
type Simulation interface {
	Step(dt float64) float64
}

// Options controls a run. Zero values fall back to DefaultOptions.
type Options struct {
	TimeStep      float64
	MaxIterations int
	// Threshold is the displacement under which the simulation counts as settled
	Threshold float64
	// TicksPerSecond paces the loop; zero runs as fast as possible
	TicksPerSecond float64
	// OnStep, if set, is called after every tick
	OnStep func(iteration int, delta float64)
	Logger *zap.SugaredLogger
}

// Result summarizes a run
type Result struct {
	Iterations int           `json:"iterations" yaml:"iterations"`
	Delta      float64       `json:"delta" yaml:"delta"`
	Converged  bool          `json:"converged" yaml:"converged"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
}

// DefaultOptions returns the defaults used for unset fields
func DefaultOptions() Options {
	return Options{
		TimeStep:      0.03,
		MaxIterations: 1000,
		Threshold:     0.01,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TimeStep <= 0 {
		o.TimeStep = def.TimeStep
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.Threshold <= 0 {
		o.Threshold = def.Threshold
	}
	if o.Logger == nil {
		o.Logger = logger.Named("runner")
	}
	return o
}

// Run steps sim until it settles, runs out of iterations or ctx is done. On
// cancellation the partial result is returned together with the context's error.
func Run(ctx context.Context, sim Simulation, opts Options) (Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	var limiter *rate.Limiter
	if opts.TicksPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.TicksPerSecond), 1)
	}

	start := time.Now()
	result := Result{}
	log.Debugw("Starting simulation",
		"time_step", opts.TimeStep,
		"max_iterations", opts.MaxIterations,
		"threshold", opts.Threshold,
		"ticks_per_second", opts.TicksPerSecond)

	for result.Iterations < opts.MaxIterations {
		if err := wait(ctx, limiter); err != nil {
			result.Elapsed = time.Since(start)
			log.Debugw("Simulation interrupted", "iterations", result.Iterations, "error", err)
			return result, err
		}

		result.Delta = sim.Step(opts.TimeStep)
		result.Iterations++
		if opts.OnStep != nil {
			opts.OnStep(result.Iterations, result.Delta)
		}

		if result.Delta < opts.Threshold {
			result.Converged = true
			break
		}
	}

	result.Elapsed = time.Since(start)
	if result.Converged {
		log.Infow("Simulation converged", "iterations", result.Iterations, "delta", result.Delta, "elapsed", result.Elapsed)
	} else {
		log.Warnw("Simulation did not fully stabilize", "iterations", result.Iterations, "delta", result.Delta)
	}
	return result, nil
}

// wait blocks until the limiter grants the next tick, or returns ctx's error if ctx
// ends first.
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if limiter == nil {
		return nil
	}
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	if delay == 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		reservation.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
